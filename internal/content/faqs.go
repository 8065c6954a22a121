package content

import (
	"context"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// ListFAQs returns published FAQ entries ordered by category, then by descending priority.
func (r *GormRepository) ListFAQs(ctx context.Context, opts ListOptions) ([]FAQView, error) {
	var records []FAQ

	query := r.db.WithContext(ctx).Preload("Author").
		Order("category ASC").
		Order("priority DESC").
		Order("id ASC")
	if !opts.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing faqs")
		return nil, eris.Wrap(err, "listing faqs")
	}

	faqs := make([]FAQView, 0, len(records))
	for i := range records {
		faqs = append(faqs, toFAQView(&records[i]))
	}

	return faqs, nil
}

// CreateFAQ stores a FAQ entry owned by authorID.
func (r *GormRepository) CreateFAQ(ctx context.Context, authorID uint, in *FAQInput) (*FAQView, error) {
	if in == nil {
		return nil, eris.New("faq input is nil")
	}

	record := &FAQ{
		Question: trimmed(in.Question),
		Answer:   trimmed(in.Answer),
		Category: DefaultFAQCategory,
		AuthorID: authorID,
	}
	if category := optional(in.Category); category != nil {
		record.Category = *category
	}
	if in.Priority != nil {
		record.Priority = *in.Priority
	}
	if in.Published != nil {
		record.Published = *in.Published
	}

	if err := r.db.WithContext(ctx).Omit("Author").Create(record).Error; err != nil {
		return nil, r.writeFailed(err, "faq", "creating faq")
	}

	return r.getFAQ(ctx, record.ID)
}

// UpdateFAQ overwrites the supplied fields of a FAQ entry.
func (r *GormRepository) UpdateFAQ(ctx context.Context, id uint, in *FAQInput) (*FAQView, error) {
	if in == nil {
		return nil, eris.New("faq input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record FAQ
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "faq %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "question", in.Question)
		setRequired(changes, "answer", in.Answer)
		if in.Category != nil {
			category := DefaultFAQCategory
			if value := optional(in.Category); value != nil {
				category = *value
			}
			changes["category"] = category
		}
		if in.Priority != nil {
			changes["priority"] = *in.Priority
		}
		if in.Published != nil {
			changes["published"] = *in.Published
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "faq", "updating faq")
	}

	return r.getFAQ(ctx, id)
}

func (r *GormRepository) getFAQ(ctx context.Context, id uint) (*FAQView, error) {
	var record FAQ
	if err := r.db.WithContext(ctx).Preload("Author").First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "faq", id, "fetching faq")
	}

	view := toFAQView(&record)
	return &view, nil
}
