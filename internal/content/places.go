package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

func (r *GormRepository) placeQuery(ctx context.Context, includeDrafts bool) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Characters", orderedBy("name ASC")).
		Preload("Stories", storiesScope(includeDrafts))
}

// ListPlaces returns places ordered by name.
func (r *GormRepository) ListPlaces(ctx context.Context, opts ListOptions) ([]PlaceView, error) {
	var records []Place

	query := r.placeQuery(ctx, opts.IncludeDrafts).Order("name ASC").Order("id ASC")
	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing places")
		return nil, eris.Wrap(err, "listing places")
	}

	places := make([]PlaceView, 0, len(records))
	for i := range records {
		places = append(places, toPlaceView(&records[i]))
	}

	return places, nil
}

// GetPlace returns a single place or ErrNotFound.
func (r *GormRepository) GetPlace(ctx context.Context, id uint, includeDrafts bool) (*PlaceView, error) {
	var record Place
	if err := r.placeQuery(ctx, includeDrafts).First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "place", id, "fetching place")
	}

	view := toPlaceView(&record)
	return &view, nil
}

// CreatePlace stores a place owned by authorID and connects the referenced characters and
// stories in the same transaction.
func (r *GormRepository) CreatePlace(ctx context.Context, authorID uint, in *PlaceInput) (*PlaceView, error) {
	if in == nil {
		return nil, eris.New("place input is nil")
	}

	content, err := sanitizeOptional(in.Content)
	if err != nil {
		return nil, err
	}

	record := &Place{
		Name:        trimmed(in.Name),
		Description: optional(in.Description),
		Content:     content,
		Image:       optional(in.Image),
		Images:      toList(in.Images),
		Tags:        toList(in.Tags),
		AuthorID:    authorID,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		characters, err := loadByIDs[Character](tx, in.CharacterIDs, "characterIds")
		if err != nil {
			return err
		}
		stories, err := loadByIDs[Story](tx, in.StoryIDs, "storyIds")
		if err != nil {
			return err
		}
		record.Characters = characters
		record.Stories = stories

		return tx.Omit("Author", "Characters.*", "Stories.*").Create(record).Error
	})
	if err != nil {
		return nil, r.writeFailed(err, "place", "creating place")
	}

	return r.GetPlace(ctx, record.ID, true)
}

// UpdatePlace overwrites the supplied fields of a place.
func (r *GormRepository) UpdatePlace(ctx context.Context, id uint, in *PlaceInput) (*PlaceView, error) {
	if in == nil {
		return nil, eris.New("place input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Place
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "place %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "name", in.Name)
		setOptional(changes, "description", in.Description)
		setOptional(changes, "image", in.Image)
		setList(changes, "images", in.Images)
		setList(changes, "tags", in.Tags)

		if in.Content != nil {
			content, err := sanitizeOptional(in.Content)
			if err != nil {
				return err
			}
			changes["content"] = content
		}

		if in.CharacterIDs != nil {
			characters, err := loadByIDs[Character](tx, in.CharacterIDs, "characterIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Characters", characters); err != nil {
				return eris.Wrap(err, "replacing place characters")
			}
		}

		if in.StoryIDs != nil {
			stories, err := loadByIDs[Story](tx, in.StoryIDs, "storyIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Stories", stories); err != nil {
				return eris.Wrap(err, "replacing place stories")
			}
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "place", "updating place")
	}

	return r.GetPlace(ctx, id, true)
}
