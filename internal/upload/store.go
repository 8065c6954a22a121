package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
)

// Store persists uploaded bytes and returns the public URL path of the stored file.
type Store interface {
	Save(ctx context.Context, kind Kind, name string, body io.Reader, size int64, contentType string) (string, error)
	Check(ctx context.Context) error
}

// LocalStore writes uploads below a public directory served as static files.
type LocalStore struct {
	root string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore constructs a disk-backed store rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, eris.New("public directory is required")
	}

	return &LocalStore{root: filepath.Clean(root)}, nil
}

// Root returns the public directory.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(_ context.Context, kind Kind, name string, body io.Reader, _ int64, _ string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", eris.Errorf("invalid upload name %q", name)
	}

	dir := filepath.Join(s.root, kind.Dir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "creating upload directory %s", dir)
	}

	target := filepath.Join(dir, name)
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", eris.Wrapf(err, "creating upload file %s", target)
	}

	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return "", eris.Wrapf(err, "writing upload file %s", target)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", eris.Wrapf(err, "closing upload file %s", target)
	}

	return path.Join("/", kind.Dir(), name), nil
}

// Check verifies the public directory exists or can be created.
func (s *LocalStore) Check(context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return eris.Wrapf(err, "preparing public directory %s", s.root)
	}
	return nil
}

// MinIOOptions configures the object storage backend.
type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore writes uploads to a bucket using the same key layout as the public directory, so
// a proxy or CDN in front of the bucket serves the returned paths unchanged.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

var _ Store = (*MinIOStore)(nil)

// NewMinIOStore constructs an object-storage-backed store.
func NewMinIOStore(opts MinIOOptions) (*MinIOStore, error) {
	if opts.Endpoint == "" {
		return nil, eris.New("minio endpoint is required")
	}
	if opts.Bucket == "" {
		return nil, eris.New("minio bucket is required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "creating minio client")
	}

	return &MinIOStore{client: client, bucket: opts.Bucket}, nil
}

func (s *MinIOStore) Save(ctx context.Context, kind Kind, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := path.Join(kind.Dir(), name)

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", eris.Wrapf(err, "uploading object %s", key)
	}

	return "/" + key, nil
}

// Check verifies the bucket is reachable.
func (s *MinIOStore) Check(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return eris.Wrapf(err, "checking bucket %s", s.bucket)
	}
	if !exists {
		return eris.Wrap(errors.New("bucket does not exist"), s.bucket)
	}
	return nil
}
