package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type crudRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*T, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*T, error)
}

// prepareFunc runs after the payload was applied and before the row is written.
type prepareFunc[T any] func(ctx context.Context, item *T, payload types.EntityPayload[T], creating bool) error

// CRUDService is the uniform admin contract shared by every catalog and content resource.
type CRUDService[T any] struct {
	name    string
	repo    crudRepository[T]
	touch   func(item *T, now time.Time, creating bool)
	prepare prepareFunc[T]
}

func newCRUDService[T any](name string, repo crudRepository[T], touch func(item *T, now time.Time, creating bool)) *CRUDService[T] {
	return &CRUDService[T]{name: name, repo: repo, touch: touch}
}

func (s *CRUDService[T]) Name() string {
	return s.name
}

func (s *CRUDService[T]) Create(ctx context.Context, payload types.EntityPayload[T]) (*T, error) {
	item := new(T)
	payload.ApplyTo(item)
	s.touch(item, time.Now().UTC(), true)

	if s.prepare != nil {
		if err := s.prepare(ctx, item, payload, true); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.translate(err)
	}
	return item, nil
}

// Update replaces every writable field of an existing row with the payload.
func (s *CRUDService[T]) Update(ctx context.Context, id uint64, payload types.EntityPayload[T]) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload.ApplyTo(item)
	s.touch(item, time.Now().UTC(), false)

	if s.prepare != nil {
		if err := s.prepare(ctx, item, payload, false); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, s.translate(err)
	}
	return item, nil
}

func (s *CRUDService[T]) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *CRUDService[T]) Get(ctx context.Context, id uint64) (*T, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s %d", ErrNotFound, s.name, id)
	}
	return item, nil
}

func (s *CRUDService[T]) List(ctx context.Context, filter repository.ListFilter) ([]*T, error) {
	return s.repo.List(ctx, filter)
}

func (s *CRUDService[T]) translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, s.name)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, s.name)
	case errors.Is(err, repository.ErrReferenceNotFound):
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, s.name)
	default:
		return err
	}
}

func stamp(createdAt, updatedAt *time.Time, now time.Time, creating bool) {
	if creating {
		*createdAt = now
	}
	*updatedAt = now
}

func NewCategoryService(repo crudRepository[entity.DonationCategory]) *CRUDService[entity.DonationCategory] {
	return newCRUDService("category", repo, func(c *entity.DonationCategory, now time.Time, creating bool) {
		stamp(&c.CreatedAt, &c.UpdatedAt, now, creating)
	})
}

func NewEventService(repo crudRepository[entity.Event]) *CRUDService[entity.Event] {
	return newCRUDService("event", repo, func(e *entity.Event, now time.Time, creating bool) {
		stamp(&e.CreatedAt, &e.UpdatedAt, now, creating)
	})
}

func NewDonationCardService(repo crudRepository[entity.DonationCard]) *CRUDService[entity.DonationCard] {
	return newCRUDService("donation card", repo, func(c *entity.DonationCard, now time.Time, creating bool) {
		stamp(&c.CreatedAt, &c.UpdatedAt, now, creating)
	})
}

func NewEventDonationCardService(repo crudRepository[entity.EventDonationCard]) *CRUDService[entity.EventDonationCard] {
	return newCRUDService("event donation card", repo, func(c *entity.EventDonationCard, now time.Time, creating bool) {
		stamp(&c.CreatedAt, &c.UpdatedAt, now, creating)
	})
}

func NewBankDetailsService(repo crudRepository[entity.BankDetails]) *CRUDService[entity.BankDetails] {
	return newCRUDService("bank details", repo, func(b *entity.BankDetails, now time.Time, creating bool) {
		stamp(&b.CreatedAt, &b.UpdatedAt, now, creating)
	})
}

func NewCategoryBankDetailsService(repo crudRepository[entity.CategoryBankDetails]) *CRUDService[entity.CategoryBankDetails] {
	return newCRUDService("category bank details", repo, func(b *entity.CategoryBankDetails, now time.Time, creating bool) {
		stamp(&b.CreatedAt, &b.UpdatedAt, now, creating)
	})
}

func NewEventBankDetailsService(repo crudRepository[entity.EventBankDetails]) *CRUDService[entity.EventBankDetails] {
	return newCRUDService("event bank details", repo, func(b *entity.EventBankDetails, now time.Time, creating bool) {
		stamp(&b.CreatedAt, &b.UpdatedAt, now, creating)
	})
}

func NewBannerService(repo crudRepository[entity.Banner]) *CRUDService[entity.Banner] {
	return newCRUDService("banner", repo, func(b *entity.Banner, now time.Time, creating bool) {
		stamp(&b.CreatedAt, &b.UpdatedAt, now, creating)
	})
}

func NewGalleryService(repo crudRepository[entity.GalleryImage]) *CRUDService[entity.GalleryImage] {
	return newCRUDService("gallery image", repo, func(g *entity.GalleryImage, now time.Time, creating bool) {
		stamp(&g.CreatedAt, &g.UpdatedAt, now, creating)
	})
}

func NewVideoService(repo crudRepository[entity.Video]) *CRUDService[entity.Video] {
	return newCRUDService("video", repo, func(v *entity.Video, now time.Time, creating bool) {
		stamp(&v.CreatedAt, &v.UpdatedAt, now, creating)
	})
}

func NewQuoteService(repo crudRepository[entity.Quote]) *CRUDService[entity.Quote] {
	return newCRUDService("quote", repo, func(q *entity.Quote, now time.Time, creating bool) {
		stamp(&q.CreatedAt, &q.UpdatedAt, now, creating)
	})
}

func NewTestimonialService(repo crudRepository[entity.Testimonial]) *CRUDService[entity.Testimonial] {
	return newCRUDService("testimonial", repo, func(t *entity.Testimonial, now time.Time, creating bool) {
		stamp(&t.CreatedAt, &t.UpdatedAt, now, creating)
	})
}

func NewBlogPostService(repo crudRepository[entity.BlogPost]) *CRUDService[entity.BlogPost] {
	return newCRUDService("blog post", repo, func(p *entity.BlogPost, now time.Time, creating bool) {
		stamp(&p.CreatedAt, &p.UpdatedAt, now, creating)
	})
}
