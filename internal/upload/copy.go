package upload

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// CopyDir copies every regular file below src into dst, preserving relative paths and
// overwriting existing files. It returns the number of files copied.
func CopyDir(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, eris.Wrapf(err, "reading source %s", src)
	}
	if !info.IsDir() {
		return 0, eris.Errorf("source %s is not a directory", src)
	}

	copied := 0
	err = filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, eris.Wrapf(err, "copying %s to %s", src, dst)
	}

	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
