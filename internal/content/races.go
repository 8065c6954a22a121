package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

type raceCount struct {
	RaceID uint
	Total  int
}

func (r *GormRepository) raceCharacterCounts(ctx context.Context, ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []raceCount
	err := r.db.WithContext(ctx).
		Model(&Character{}).
		Select("race_id, COUNT(*) AS total").
		Where("race_id IN ?", ids).
		Group("race_id").
		Scan(&rows).Error
	if err != nil {
		return nil, eris.Wrap(err, "counting race characters")
	}

	for _, row := range rows {
		counts[row.RaceID] = row.Total
	}

	return counts, nil
}

// ListRaces returns races ordered by name with their character counts.
func (r *GormRepository) ListRaces(ctx context.Context, opts ListOptions) ([]RaceView, error) {
	var records []Race

	query := r.db.WithContext(ctx).Preload("Author").Order("name ASC")
	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing races")
		return nil, eris.Wrap(err, "listing races")
	}

	ids := make([]uint, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}

	counts, err := r.raceCharacterCounts(ctx, ids)
	if err != nil {
		r.logError(nil, err, "listing races")
		return nil, err
	}

	races := make([]RaceView, 0, len(records))
	for i := range records {
		races = append(races, toRaceView(&records[i], counts[records[i].ID]))
	}

	return races, nil
}

// GetRace returns a single race or ErrNotFound.
func (r *GormRepository) GetRace(ctx context.Context, id uint, _ bool) (*RaceView, error) {
	var record Race
	if err := r.db.WithContext(ctx).Preload("Author").First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "race", id, "fetching race")
	}

	counts, err := r.raceCharacterCounts(ctx, []uint{id})
	if err != nil {
		r.logError(nil, err, "fetching race")
		return nil, err
	}

	view := toRaceView(&record, counts[id])
	return &view, nil
}

func ensureRaceNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&Race{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return eris.Wrap(err, "checking race name")
	}

	if count > 0 {
		return eris.Wrapf(ErrDuplicate, "race %q", name)
	}

	return nil
}

// CreateRace stores a race owned by authorID. Race names are unique.
func (r *GormRepository) CreateRace(ctx context.Context, authorID uint, in *RaceInput) (*RaceView, error) {
	if in == nil {
		return nil, eris.New("race input is nil")
	}

	record := &Race{
		Name:        trimmed(in.Name),
		Description: optional(in.Description),
		Image:       optional(in.Image),
		AuthorID:    authorID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRaceNameFree(tx, record.Name, 0); err != nil {
			return err
		}
		return tx.Omit("Author").Create(record).Error
	})
	if err != nil {
		return nil, r.writeFailed(err, "race", "creating race")
	}

	return r.GetRace(ctx, record.ID, true)
}

// UpdateRace overwrites the supplied fields of a race.
func (r *GormRepository) UpdateRace(ctx context.Context, id uint, in *RaceInput) (*RaceView, error) {
	if in == nil {
		return nil, eris.New("race input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record Race
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "race %d", id)
			}
			return err
		}

		changes := map[string]any{}
		if in.Name != nil {
			name := trimmed(in.Name)
			if err := ensureRaceNameFree(tx, name, id); err != nil {
				return err
			}
			changes["name"] = name
		}
		setOptional(changes, "description", in.Description)
		setOptional(changes, "image", in.Image)

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "race", "updating race")
	}

	return r.GetRace(ctx, id, true)
}
