package content

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/richtext"
)

// ListDevblogPosts returns devblog posts, newest first. Drafts are only included on request.
func (r *GormRepository) ListDevblogPosts(ctx context.Context, opts ListOptions) ([]DevblogView, error) {
	var records []DevblogPost

	query := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Order("id DESC")
	if !opts.IncludeDrafts {
		query = query.Where("published = ?", true)
	}

	if err := applyLimit(query, opts.Limit).Find(&records).Error; err != nil {
		r.logError(nil, err, "listing devblog posts")
		return nil, eris.Wrap(err, "listing devblog posts")
	}

	posts := make([]DevblogView, 0, len(records))
	for i := range records {
		posts = append(posts, toDevblogView(&records[i]))
	}

	return posts, nil
}

func deriveExcerpt(excerpt *string, content string) *string {
	if value := optional(excerpt); value != nil {
		return value
	}

	derived := richtext.Excerpt(content, richtext.DefaultExcerptLength)
	if derived == "" {
		return nil
	}
	return &derived
}

// excerptDerived reports whether the stored excerpt was generated from the stored content
// rather than written by an editor.
func excerptDerived(record *DevblogPost) bool {
	if record.Excerpt == nil {
		return true
	}
	return *record.Excerpt == richtext.Excerpt(record.Content, richtext.DefaultExcerptLength)
}

// CreateDevblogPost stores a post owned by authorID. The excerpt is derived from the content
// when none is given; publishing stamps publishedAt.
func (r *GormRepository) CreateDevblogPost(ctx context.Context, authorID uint, in *DevblogInput) (*DevblogView, error) {
	if in == nil {
		return nil, eris.New("devblog input is nil")
	}

	content, err := sanitize(in.Content)
	if err != nil {
		return nil, err
	}

	record := &DevblogPost{
		Title:      trimmed(in.Title),
		Content:    content,
		Excerpt:    deriveExcerpt(in.Excerpt, content),
		CoverImage: optional(in.CoverImage),
		Tags:       toList(in.Tags),
		AuthorID:   authorID,
	}
	if in.Published != nil && *in.Published {
		now := time.Now().UTC()
		record.Published = true
		record.PublishedAt = &now
	}

	if err := r.db.WithContext(ctx).Omit("Author").Create(record).Error; err != nil {
		return nil, r.writeFailed(err, "devblog", "creating devblog post")
	}

	return r.getDevblogPost(ctx, record.ID)
}

// UpdateDevblogPost overwrites the supplied fields of a post. publishedAt is stamped the first
// time the post is published and kept afterwards.
func (r *GormRepository) UpdateDevblogPost(ctx context.Context, id uint, in *DevblogInput) (*DevblogView, error) {
	if in == nil {
		return nil, eris.New("devblog input is nil")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record DevblogPost
		if err := tx.First(&record, id).Error; err != nil {
			if eris.Is(err, gorm.ErrRecordNotFound) {
				return eris.Wrapf(ErrNotFound, "devblog post %d", id)
			}
			return err
		}

		changes := map[string]any{}
		setRequired(changes, "title", in.Title)
		setOptional(changes, "cover_image", in.CoverImage)
		setList(changes, "tags", in.Tags)

		content := record.Content
		if in.Content != nil {
			clean, err := sanitize(in.Content)
			if err != nil {
				return err
			}
			content = clean
			changes["content"] = clean
		}

		switch {
		case in.Excerpt != nil:
			changes["excerpt"] = deriveExcerpt(in.Excerpt, content)
		case content != record.Content && excerptDerived(&record):
			changes["excerpt"] = deriveExcerpt(nil, content)
		}

		if in.Published != nil {
			changes["published"] = *in.Published
			if *in.Published && record.PublishedAt == nil {
				changes["published_at"] = time.Now().UTC()
			}
		}

		return applyChanges(tx, &record, changes)
	})
	if err != nil {
		return nil, r.writeFailed(err, "devblog", "updating devblog post")
	}

	return r.getDevblogPost(ctx, id)
}

func (r *GormRepository) getDevblogPost(ctx context.Context, id uint) (*DevblogView, error) {
	var record DevblogPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&record, id).Error; err != nil {
		return nil, r.readFailed(err, "devblog post", id, "fetching devblog post")
	}

	view := toDevblogView(&record)
	return &view, nil
}
