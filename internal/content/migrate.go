package content

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var joinTables = []string{"character_places", "story_characters", "place_stories"}

func models() []any {
	return []any{
		&User{},
		&Race{},
		&Character{},
		&Place{},
		&Story{},
		&FAQ{},
		&Media{},
		&RoadmapItem{},
		&DevblogPost{},
	}
}

// Migrate applies the content schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "content.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying content schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(models()...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("content schema migration failed")
		}
		return eris.Wrap(err, "auto migrating content schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("content schema migration complete")
	}

	return nil
}

// Reset drops every content table, join tables included, and re-applies the schema.
// All stored data is lost.
func Reset(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "content.reset"}
	if logger != nil {
		logger.WithFields(logFields).Warn("dropping content schema")
	}

	migrator := db.WithContext(ctx).Migrator()

	tables := make([]any, 0, len(joinTables)+len(models()))
	for _, table := range joinTables {
		tables = append(tables, table)
	}
	all := models()
	for i := len(all) - 1; i >= 0; i-- {
		tables = append(tables, all[i])
	}

	if err := migrator.DropTable(tables...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("dropping content schema failed")
		}
		return eris.Wrap(err, "dropping content schema")
	}

	return Migrate(ctx, db, logger)
}
