package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

func (r *GormRepository) characterQuery(ctx context.Context, includeDrafts bool) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("RaceEntity").
		Preload("Places", orderedBy("name ASC")).
		Preload("Stories", storiesScope(includeDrafts))
}

// ListCharacters returns characters ordered by name.
func (r *GormRepository) ListCharacters(ctx context.Context, opts ListOptions) ([]CharacterView, error) {
	var records []Character

	query := r.characterQuery(ctx, opts.IncludeDrafts).Order("name ASC").Order("id ASC")
	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing characters")
		return nil, eris.Wrap(err, "listing characters")
	}

	characters := make([]CharacterView, 0, len(records))
	for i := range records {
		characters = append(characters, toCharacterView(&records[i]))
	}

	return characters, nil
}

// GetCharacter returns a single character or ErrNotFound.
func (r *GormRepository) GetCharacter(ctx context.Context, id uint, includeDrafts bool) (*CharacterView, error) {
	var record Character
	if err := r.characterQuery(ctx, includeDrafts).First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "character", id, "fetching character")
	}

	view := toCharacterView(&record)
	return &view, nil
}

// CreateCharacter stores a character owned by authorID and connects the referenced places and
// stories in the same transaction.
func (r *GormRepository) CreateCharacter(ctx context.Context, authorID uint, in *CharacterInput) (*CharacterView, error) {
	if in == nil {
		return nil, eris.New("character input is nil")
	}

	record := &Character{
		Name:        trimmed(in.Name),
		LastName:    optional(in.LastName),
		Title:       optional(in.Title),
		Race:        optional(in.Race),
		Class:       optional(in.Class),
		Faction:     optional(in.Faction),
		Alignment:   optional(in.Alignment),
		Background:  optional(in.Background),
		Description: optional(in.Description),
		Image:       optional(in.Image),
		Video:       optional(in.Video),
		Images:      toList(in.Images),
		Videos:      toList(in.Videos),
		Tags:        toList(in.Tags),
		AuthorID:    authorID,
	}
	if in.RaceID != nil && *in.RaceID != 0 {
		raceID := *in.RaceID
		record.RaceID = &raceID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.RaceID != nil {
			if err := ensureExists[Race](tx, *record.RaceID, "raceId"); err != nil {
				return err
			}
		}

		places, err := loadByIDs[Place](tx, in.PlaceIDs, "placeIds")
		if err != nil {
			return err
		}
		stories, err := loadByIDs[Story](tx, in.StoryIDs, "storyIds")
		if err != nil {
			return err
		}
		record.Places = places
		record.Stories = stories

		return tx.Omit("Author", "RaceEntity", "Places.*", "Stories.*").Create(record).Error
	})
	if err != nil {
		return nil, r.writeFailed(err, "character", "creating character")
	}

	return r.GetCharacter(ctx, record.ID, true)
}

// UpdateCharacter overwrites the supplied fields of a character. Relation id arrays, when
// present, replace the current links.
func (r *GormRepository) UpdateCharacter(ctx context.Context, id uint, in *CharacterInput) (*CharacterView, error) {
	if in == nil {
		return nil, eris.New("character input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Character
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "character %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "name", in.Name)
		setOptional(changes, "last_name", in.LastName)
		setOptional(changes, "title", in.Title)
		setOptional(changes, "race", in.Race)
		setOptional(changes, "class", in.Class)
		setOptional(changes, "faction", in.Faction)
		setOptional(changes, "alignment", in.Alignment)
		setOptional(changes, "background", in.Background)
		setOptional(changes, "description", in.Description)
		setOptional(changes, "image", in.Image)
		setOptional(changes, "video", in.Video)
		setList(changes, "images", in.Images)
		setList(changes, "videos", in.Videos)
		setList(changes, "tags", in.Tags)

		if in.RaceID != nil {
			if *in.RaceID == 0 {
				changes["race_id"] = nil
			} else {
				if err := ensureExists[Race](tx, *in.RaceID, "raceId"); err != nil {
					return err
				}
				changes["race_id"] = *in.RaceID
			}
		}

		if in.PlaceIDs != nil {
			places, err := loadByIDs[Place](tx, in.PlaceIDs, "placeIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Places", places); err != nil {
				return eris.Wrap(err, "replacing character places")
			}
		}

		if in.StoryIDs != nil {
			stories, err := loadByIDs[Story](tx, in.StoryIDs, "storyIds")
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, &record, "Stories", stories); err != nil {
				return eris.Wrap(err, "replacing character stories")
			}
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "character", "updating character")
	}

	return r.GetCharacter(ctx, id, true)
}
