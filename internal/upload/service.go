package upload

import (
	"context"
	"mime/multipart"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service validates uploaded files and hands them to a Store.
type Service struct {
	store  Store
	logger *logrus.Logger
}

// NewService constructs the upload service.
func NewService(store Store, logger *logrus.Logger) (*Service, error) {
	if store == nil {
		return nil, eris.New("upload store is required")
	}

	return &Service{store: store, logger: logger}, nil
}

// Store exposes the configured backend.
func (s *Service) Store() Store {
	return s.store
}

// Save classifies the file by its declared content type, derives a random name and writes it.
// It returns the public URL path of the stored file.
func (s *Service) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", eris.New("file is required")
	}

	contentType := header.Header.Get("Content-Type")
	kind, err := Classify(contentType)
	if err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", eris.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	name := FileName(header.Filename, contentType)
	url, err := s.store.Save(ctx, kind, name, file, header.Size, contentType)
	if err != nil {
		s.logError(logrus.Fields{"file": header.Filename, "content_type": contentType}, err, "storing upload")
		return "", eris.Wrap(err, "storing upload")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"url":          url,
			"kind":         kind,
			"size":         header.Size,
			"content_type": contentType,
		}).Info("upload stored")
	}

	return url, nil
}

func (s *Service) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
