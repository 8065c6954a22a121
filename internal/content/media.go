package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// ListMedia returns published media entries, newest first, filtered by type and featured flag.
func (r *GormRepository) ListMedia(ctx context.Context, opts ListOptions) ([]MediaView, error) {
	var records []Media

	query := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Order("id DESC")
	if !opts.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.Featured != nil {
		query = query.Where("featured = ?", *opts.Featured)
	}

	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing media")
		return nil, eris.Wrap(err, "listing media")
	}

	media := make([]MediaView, 0, len(records))
	for i := range records {
		media = append(media, toMediaView(&records[i]))
	}

	return media, nil
}

// CreateMedia stores a media entry owned by authorID.
func (r *GormRepository) CreateMedia(ctx context.Context, authorID uint, in *MediaInput) (*MediaView, error) {
	if in == nil {
		return nil, eris.New("media input is nil")
	}

	record := &Media{
		Title:       trimmed(in.Title),
		Description: optional(in.Description),
		URL:         trimmed(in.URL),
		Thumbnail:   optional(in.Thumbnail),
		Type:        trimmed(in.Type),
		AuthorID:    authorID,
	}
	if in.Featured != nil {
		record.Featured = *in.Featured
	}
	if in.Published != nil {
		record.Published = *in.Published
	}

	if err := r.db.WithContext(ctx).Omit("Author").Create(record).Error; err != nil {
		return nil, r.writeFailed(err, "media", "creating media")
	}

	return r.getMedia(ctx, record.ID)
}

// UpdateMedia overwrites the supplied fields of a media entry.
func (r *GormRepository) UpdateMedia(ctx context.Context, id uint, in *MediaInput) (*MediaView, error) {
	if in == nil {
		return nil, eris.New("media input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Media
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "media %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "title", in.Title)
		setRequired(changes, "url", in.URL)
		setRequired(changes, "type", in.Type)
		setOptional(changes, "description", in.Description)
		setOptional(changes, "thumbnail", in.Thumbnail)
		if in.Featured != nil {
			changes["featured"] = *in.Featured
		}
		if in.Published != nil {
			changes["published"] = *in.Published
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "media", "updating media")
	}

	return r.getMedia(ctx, id)
}

func (r *GormRepository) getMedia(ctx context.Context, id uint) (*MediaView, error) {
	var record Media
	if err := r.db.WithContext(ctx).Preload("Author").First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "media", id, "fetching media")
	}

	view := toMediaView(&record)
	return &view, nil
}
