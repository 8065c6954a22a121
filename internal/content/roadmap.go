package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// ListRoadmap returns roadmap items by descending priority, then by target date with undated
// items last.
func (r *GormRepository) ListRoadmap(ctx context.Context, opts ListOptions) ([]RoadmapView, error) {
	var records []RoadmapItem

	query := r.db.WithContext(ctx).Preload("Author").
		Order("priority DESC").
		Order("target_date IS NULL").
		Order("target_date ASC").
		Order("id ASC")
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing roadmap")
		return nil, eris.Wrap(err, "listing roadmap")
	}

	items := make([]RoadmapView, 0, len(records))
	for i := range records {
		items = append(items, toRoadmapView(&records[i]))
	}

	return items, nil
}

// CreateRoadmapItem stores a roadmap item owned by authorID.
func (r *GormRepository) CreateRoadmapItem(ctx context.Context, authorID uint, in *RoadmapInput) (*RoadmapView, error) {
	if in == nil {
		return nil, eris.New("roadmap input is nil")
	}

	record := &RoadmapItem{
		Title:       trimmed(in.Title),
		Description: optional(in.Description),
		Status:      RoadmapPlanned,
		Category:    optional(in.Category),
		TargetDate:  in.TargetDate,
		AuthorID:    authorID,
	}
	if status := optional(in.Status); status != nil {
		record.Status = *status
	}
	if in.Priority != nil {
		record.Priority = *in.Priority
	}

	if err := r.db.WithContext(ctx).Omit("Author").Create(record).Error; err != nil {
		return nil, r.writeFailed(err, "roadmap", "creating roadmap item")
	}

	return r.getRoadmapItem(ctx, record.ID)
}

// UpdateRoadmapItem overwrites the supplied fields of a roadmap item.
func (r *GormRepository) UpdateRoadmapItem(ctx context.Context, id uint, in *RoadmapInput) (*RoadmapView, error) {
	if in == nil {
		return nil, eris.New("roadmap input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record RoadmapItem
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "roadmap item %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "title", in.Title)
		setOptional(changes, "description", in.Description)
		setOptional(changes, "category", in.Category)
		if status := optional(in.Status); status != nil {
			changes["status"] = *status
		}
		if in.Priority != nil {
			changes["priority"] = *in.Priority
		}
		if in.TargetDate != nil {
			changes["target_date"] = *in.TargetDate
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "roadmap", "updating roadmap item")
	}

	return r.getRoadmapItem(ctx, id)
}

func (r *GormRepository) getRoadmapItem(ctx context.Context, id uint) (*RoadmapView, error) {
	var record RoadmapItem
	if err := r.db.WithContext(ctx).Preload("Author").First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "roadmap item", id, "fetching roadmap item")
	}

	view := toRoadmapView(&record)
	return &view, nil
}
