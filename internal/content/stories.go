package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

func (r *GormRepository) storyQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Characters", orderedBy("name ASC")).
		Preload("Places", orderedBy("name ASC"))
}

// ListStories returns published stories, most recently updated first.
func (r *GormRepository) ListStories(ctx context.Context, opts ListOptions) ([]StoryView, error) {
	var records []Story

	query := r.storyQuery(ctx).Order("updated_at DESC").Order("id DESC")
	if !opts.IncludeDrafts {
		query = query.Where("published = ?", true)
	}

	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing stories")
		return nil, eris.Wrap(err, "listing stories")
	}

	stories := make([]StoryView, 0, len(records))
	for i := range records {
		stories = append(stories, toStoryView(&records[i]))
	}

	return stories, nil
}

// GetStory returns a single story. Unpublished stories are only visible with includeDrafts.
func (r *GormRepository) GetStory(ctx context.Context, id uint, includeDrafts bool) (*StoryView, error) {
	var record Story

	query := r.storyQuery(ctx)
	if !includeDrafts {
		query = query.Where("published = ?", true)
	}

	if err := query.First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "story", id, "fetching story")
	}

	view := toStoryView(&record)
	return &view, nil
}

// CreateStory stores a story owned by authorID and connects the referenced characters and
// places in the same transaction. Stories are published unless the input says otherwise.
func (r *GormRepository) CreateStory(ctx context.Context, authorID uint, in *StoryInput) (*StoryView, error) {
	if in == nil {
		return nil, eris.New("story input is nil")
	}

	content, err := sanitize(in.Content)
	if err != nil {
		return nil, err
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	record := &Story{
		Title:     trimmed(in.Title),
		Summary:   optional(in.Summary),
		Content:   content,
		Image:     optional(in.Image),
		Images:    toList(in.Images),
		Tags:      toList(in.Tags),
		Published: published,
		AuthorID:  authorID,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		characters, err := loadByIDs[Character](tx, in.CharacterIDs, "characterIds")
		if err != nil {
			return err
		}
		places, err := loadByIDs[Place](tx, in.PlaceIDs, "placeIds")
		if err != nil {
			return err
		}
		record.Characters = characters
		record.Places = places

		return tx.Omit("Author", "Characters.*", "Places.*").Create(record).Error
	})
	if err != nil {
		return nil, r.writeFailed(err, "story", "creating story")
	}

	return r.GetStory(ctx, record.ID, true)
}

// UpdateStory overwrites the supplied fields of a story.
func (r *GormRepository) UpdateStory(ctx context.Context, id uint, in *StoryInput) (*StoryView, error) {
	if in == nil {
		return nil, eris.New("story input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Story
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "story %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "title", in.Title)
		setOptional(changes, "summary", in.Summary)
		setOptional(changes, "image", in.Image)
		setList(changes, "images", in.Images)
		setList(changes, "tags", in.Tags)

		if in.Content != nil {
			content, err := sanitize(in.Content)
			if err != nil {
				return err
			}
			changes["content"] = content
		}

		if in.Published != nil {
			changes["published"] = *in.Published
		}

		if in.CharacterIDs != nil {
			characters, err := loadByIDs[Character](tx, in.CharacterIDs, "characterIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Characters", characters); err != nil {
				return eris.Wrap(err, "replacing story characters")
			}
		}

		if in.PlaceIDs != nil {
			places, err := loadByIDs[Place](tx, in.PlaceIDs, "placeIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Places", places); err != nil {
				return eris.Wrap(err, "replacing story places")
			}
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "story", "updating story")
	}

	return r.GetStory(ctx, id, true)
}
