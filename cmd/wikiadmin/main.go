// Command wikiadmin runs maintenance tasks against the companion site database and public
// directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/app/bootstrap"
	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/config"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/db"
	applog "github.com/hugomepuich/playafterlife-sub001/internal/log"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

const usage = `usage: wikiadmin <command> [flags]

commands:
  promote -email <address> [-role ADMIN|USER]   change the role of a registered user
  reset -yes                                   drop and re-create every table
  migrate                                      apply the schema
  copy -src <dir> [-dst <dir>]                 copy files into the public directory`

var errUsage = errors.New(usage)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "wikiadmin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "promote":
		return promote(ctx, cfg, logger, rest, out)
	case "reset":
		return reset(ctx, cfg, logger, rest, out)
	case "migrate":
		return migrate(ctx, cfg, logger, rest, out)
	case "copy":
		return copyFiles(cfg, rest, out)
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	default:
		return eris.Errorf("unknown command %q\n%s", command, usage)
	}
}

func promote(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string, out io.Writer) error {
	flags := newFlagSet("promote", out)
	email := flags.String("email", "", "email of the account to update")
	roleValue := flags.String("role", string(auth.RoleAdmin), "role to assign (ADMIN or USER)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		return eris.New("-email is required")
	}

	role, err := auth.ParseRole(*roleValue)
	if err != nil {
		return err
	}

	return withDatabase(ctx, cfg, logger, func(database *gorm.DB) error {
		if err := content.Migrate(ctx, database, logger); err != nil {
			return err
		}

		repo, err := content.NewRepository(database, logger)
		if err != nil {
			return err
		}

		user, err := repo.UpdateUserRole(ctx, *email, role)
		if err != nil {
			if eris.Is(err, content.ErrNotFound) {
				return eris.Errorf("no user registered with email %s", content.NormalizeEmail(*email))
			}
			return err
		}

		fmt.Fprintf(out, "%s is now %s\n", user.Email, user.Role)
		return nil
	})
}

func reset(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string, out io.Writer) error {
	flags := newFlagSet("reset", out)
	confirmed := flags.Bool("yes", false, "confirm that all data should be deleted")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if !*confirmed {
		return eris.New("reset deletes all data; pass -yes to confirm")
	}

	return withDatabase(ctx, cfg, logger, func(database *gorm.DB) error {
		if err := content.Reset(ctx, database, logger); err != nil {
			return err
		}
		fmt.Fprintln(out, "database reset")
		return nil
	})
}

func migrate(ctx context.Context, cfg *config.Config, logger *logrus.Logger, args []string, out io.Writer) error {
	flags := newFlagSet("migrate", out)
	if err := flags.Parse(args); err != nil {
		return err
	}

	return withDatabase(ctx, cfg, logger, func(database *gorm.DB) error {
		if err := content.Migrate(ctx, database, logger); err != nil {
			return err
		}
		fmt.Fprintln(out, "schema up to date")
		return nil
	})
}

func copyFiles(cfg *config.Config, args []string, out io.Writer) error {
	flags := newFlagSet("copy", out)
	src := flags.String("src", "", "directory to copy from")
	dst := flags.String("dst", cfg.PublicDir, "directory to copy into")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*src) == "" {
		return eris.New("-src is required")
	}

	copied, err := upload.CopyDir(*src, *dst)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "copied %d files into %s\n", copied, *dst)
	return nil
}

func withDatabase(ctx context.Context, cfg *config.Config, logger *logrus.Logger, fn func(*gorm.DB) error) error {
	database, err := bootstrap.OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(database); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(database)
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(out)
	return flags
}
