package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

func NewBannerRepository(db DBTX) *CRUDRepository[entity.Banner] {
	return newCRUDRepository(db, table[entity.Banner]{
		name:         "banners",
		columns:      []string{"title", "subtitle", "image_url", "link_url", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id ASC",
		activeColumn: "is_active",
		id:           func(b *entity.Banner) uint64 { return b.ID },
		setID:        func(b *entity.Banner, id uint64) { b.ID = id },
		values: func(b *entity.Banner) ([]interface{}, error) {
			return []interface{}{b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.IsActive, b.DisplayOrder, b.CreatedAt, b.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, b *entity.Banner) error {
			return scan.Scan(&b.ID, &b.Title, &b.Subtitle, &b.ImageURL, &b.LinkURL, &b.IsActive, &b.DisplayOrder, &b.CreatedAt, &b.UpdatedAt)
		},
	})
}

func NewGalleryRepository(db DBTX) *CRUDRepository[entity.GalleryImage] {
	return newCRUDRepository(db, table[entity.GalleryImage]{
		name:         "gallery_images",
		columns:      []string{"title", "image_url", "album", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id DESC",
		activeColumn: "is_active",
		id:           func(g *entity.GalleryImage) uint64 { return g.ID },
		setID:        func(g *entity.GalleryImage, id uint64) { g.ID = id },
		values: func(g *entity.GalleryImage) ([]interface{}, error) {
			return []interface{}{g.Title, g.ImageURL, g.Album, g.IsActive, g.DisplayOrder, g.CreatedAt, g.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, g *entity.GalleryImage) error {
			return scan.Scan(&g.ID, &g.Title, &g.ImageURL, &g.Album, &g.IsActive, &g.DisplayOrder, &g.CreatedAt, &g.UpdatedAt)
		},
	})
}

func NewVideoRepository(db DBTX) *CRUDRepository[entity.Video] {
	return newCRUDRepository(db, table[entity.Video]{
		name:         "videos",
		columns:      []string{"title", "video_url", "description", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id DESC",
		activeColumn: "is_active",
		id:           func(v *entity.Video) uint64 { return v.ID },
		setID:        func(v *entity.Video, id uint64) { v.ID = id },
		values: func(v *entity.Video) ([]interface{}, error) {
			return []interface{}{v.Title, v.VideoURL, v.Description, v.IsActive, v.DisplayOrder, v.CreatedAt, v.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, v *entity.Video) error {
			return scan.Scan(&v.ID, &v.Title, &v.VideoURL, &v.Description, &v.IsActive, &v.DisplayOrder, &v.CreatedAt, &v.UpdatedAt)
		},
	})
}

func NewQuoteRepository(db DBTX) *CRUDRepository[entity.Quote] {
	return newCRUDRepository(db, table[entity.Quote]{
		name:         "quotes",
		columns:      []string{"text", "author", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id ASC",
		activeColumn: "is_active",
		id:           func(q *entity.Quote) uint64 { return q.ID },
		setID:        func(q *entity.Quote, id uint64) { q.ID = id },
		values: func(q *entity.Quote) ([]interface{}, error) {
			return []interface{}{q.Text, q.Author, q.IsActive, q.DisplayOrder, q.CreatedAt, q.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, q *entity.Quote) error {
			return scan.Scan(&q.ID, &q.Text, &q.Author, &q.IsActive, &q.DisplayOrder, &q.CreatedAt, &q.UpdatedAt)
		},
	})
}

func NewTestimonialRepository(db DBTX) *CRUDRepository[entity.Testimonial] {
	return newCRUDRepository(db, table[entity.Testimonial]{
		name:         "testimonials",
		columns:      []string{"name", "message", "image_url", "is_active", "display_order", "created_at", "updated_at"},
		orderBy:      "display_order ASC, id DESC",
		activeColumn: "is_active",
		id:           func(t *entity.Testimonial) uint64 { return t.ID },
		setID:        func(t *entity.Testimonial, id uint64) { t.ID = id },
		values: func(t *entity.Testimonial) ([]interface{}, error) {
			return []interface{}{t.Name, t.Message, t.ImageURL, t.IsActive, t.DisplayOrder, t.CreatedAt, t.UpdatedAt}, nil
		},
		scan: func(scan rowScanner, t *entity.Testimonial) error {
			return scan.Scan(&t.ID, &t.Name, &t.Message, &t.ImageURL, &t.IsActive, &t.DisplayOrder, &t.CreatedAt, &t.UpdatedAt)
		},
	})
}

type BlogPostRepository struct {
	*CRUDRepository[entity.BlogPost]
}

func NewBlogPostRepository(db DBTX) *BlogPostRepository {
	return &BlogPostRepository{CRUDRepository: newCRUDRepository(db, table[entity.BlogPost]{
		name:         "blog_posts",
		columns:      []string{"title", "slug", "excerpt", "content", "image_url", "published", "published_at", "created_at", "updated_at"},
		orderBy:      "COALESCE(published_at, created_at) DESC, id DESC",
		activeColumn: "published",
		id:           func(p *entity.BlogPost) uint64 { return p.ID },
		setID:        func(p *entity.BlogPost, id uint64) { p.ID = id },
		values: func(p *entity.BlogPost) ([]interface{}, error) {
			return []interface{}{
				p.Title, p.Slug, p.Excerpt, p.Content, p.ImageURL, p.Published, nullableTimeValue(p.PublishedAt), p.CreatedAt, p.UpdatedAt,
			}, nil
		},
		scan: func(scan rowScanner, p *entity.BlogPost) error {
			var publishedAt sql.NullTime
			err := scan.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt)
			if err != nil {
				return err
			}
			p.PublishedAt = timePtrFromNull(publishedAt)
			return nil
		},
	})}
}

func (r *BlogPostRepository) FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	query := "SELECT " + r.table.selectColumns() + " FROM blog_posts WHERE slug = ? LIMIT 1"
	return r.findOne(ctx, query, slug)
}

type ContactMessageRepository struct {
	*CRUDRepository[entity.ContactMessage]
}

func NewContactMessageRepository(db DBTX) *ContactMessageRepository {
	return &ContactMessageRepository{CRUDRepository: newCRUDRepository(db, table[entity.ContactMessage]{
		name:    "contact_messages",
		columns: []string{"name", "email", "phone", "subject", "message", "is_read", "created_at"},
		orderBy: "id DESC",
		id:      func(m *entity.ContactMessage) uint64 { return m.ID },
		setID:   func(m *entity.ContactMessage, id uint64) { m.ID = id },
		values: func(m *entity.ContactMessage) ([]interface{}, error) {
			return []interface{}{m.Name, m.Email, nullableStringValue(m.Phone), m.Subject, m.Message, m.IsRead, m.CreatedAt}, nil
		},
		scan: func(scan rowScanner, m *entity.ContactMessage) error {
			var phone sql.NullString
			if err := scan.Scan(&m.ID, &m.Name, &m.Email, &phone, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
				return err
			}
			m.Phone = stringPtrFromNull(phone)
			return nil
		},
	})}
}

func (r *ContactMessageRepository) MarkRead(ctx context.Context, id uint64, read bool) error {
	result, err := r.db.ExecContext(ctx, "UPDATE contact_messages SET is_read = ? WHERE id = ?", read, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
	}
	return nil
}
