package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type serviceBlogPosts struct {
	posts map[string]*entity.BlogPost
}

func (r *serviceBlogPosts) FindBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	return r.posts[slug], nil
}

func newTestContentService() (*ContentService, *serviceCatalog) {
	catalog := newServiceCatalog()
	catalog.categories.put(&entity.DonationCategory{ID: 3, Name: "Annadanam", IsActive: true})
	catalog.categories.put(&entity.DonationCategory{ID: 4, Name: "Old Fund"})
	catalog.cards.put(&entity.DonationCard{ID: 7, CategoryID: 3, Amount: 501, IsActive: true})
	catalog.cards.put(&entity.DonationCard{ID: 8, CategoryID: 3, Amount: 101})
	catalog.cards.put(&entity.DonationCard{ID: 9, CategoryID: 4, Amount: 1001, IsActive: true})
	catalog.events.put(&entity.Event{ID: 2, Title: "Maha Shivaratri", IsActive: true, DonationEnabled: true})
	catalog.eventCards.put(&entity.EventDonationCard{ID: 5, EventID: 2, Amount: 1001, IsActive: true})

	categoryBanks := newServiceTable(
		func(b *entity.CategoryBankDetails) uint64 { return b.ID },
		func(b *entity.CategoryBankDetails, id uint64) { b.ID = id },
	)
	categoryBanks.parent = func(b *entity.CategoryBankDetails) uint64 { return b.CategoryID }
	categoryBanks.put(&entity.CategoryBankDetails{ID: 1, CategoryID: 3, IsActive: true})

	eventBanks := newServiceTable(
		func(b *entity.EventBankDetails) uint64 { return b.ID },
		func(b *entity.EventBankDetails, id uint64) { b.ID = id },
	)

	posts := &serviceBlogPosts{posts: map[string]*entity.BlogPost{
		"festival-schedule": {ID: 1, Slug: "festival-schedule", Title: "Festival schedule", Published: true},
		"draft":             {ID: 2, Slug: "draft", Title: "Draft"},
	}}

	svc := NewContentService(catalog.categories, catalog.events, catalog.cards, catalog.eventCards, categoryBanks, eventBanks, posts)
	return svc, catalog
}

func TestGetCategoryDetails(t *testing.T) {
	svc, _ := newTestContentService()

	details, err := svc.GetCategoryDetails(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetCategoryDetails() error = %v", err)
	}
	if len(details.Cards) != 1 || details.Cards[0].ID != 7 {
		t.Fatalf("expected only the active card of category 3, got %+v", details.Cards)
	}
	if len(details.BankDetails) != 1 {
		t.Fatalf("expected bank details, got %+v", details.BankDetails)
	}

	if _, err := svc.GetCategoryDetails(context.Background(), 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive category, got %v", err)
	}
}

func TestGetEventDetails(t *testing.T) {
	svc, _ := newTestContentService()

	details, err := svc.GetEventDetails(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetEventDetails() error = %v", err)
	}
	if details.Event.Title != "Maha Shivaratri" || len(details.Cards) != 1 {
		t.Fatalf("unexpected event details %+v", details)
	}
	if _, err := svc.GetEventDetails(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPublishedPost(t *testing.T) {
	svc, _ := newTestContentService()

	post, err := svc.GetPublishedPost(context.Background(), " Festival-Schedule ")
	if err != nil {
		t.Fatalf("GetPublishedPost() error = %v", err)
	}
	if post.ID != 1 {
		t.Fatalf("unexpected post %+v", post)
	}
	if _, err := svc.GetPublishedPost(context.Background(), "draft"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft, got %v", err)
	}
}

type serviceContactRepo struct {
	*serviceTable[entity.ContactMessage]
}

func (r *serviceContactRepo) MarkRead(_ context.Context, id uint64, read bool) error {
	item, ok := r.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	item.IsRead = read
	return nil
}

func TestContactServiceFlow(t *testing.T) {
	repo := &serviceContactRepo{serviceTable: newServiceTable(
		func(m *entity.ContactMessage) uint64 { return m.ID },
		func(m *entity.ContactMessage, id uint64) { m.ID = id },
	)}
	svc := NewContactService(repo)

	message, err := svc.Submit(context.Background(), &types.ContactRequest{
		Name:    "Asha",
		Email:   "asha@example.com",
		Subject: "Pooja timings",
		Message: "What time is the evening aarti?",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := svc.MarkRead(context.Background(), message.ID, true); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	items, err := svc.List(context.Background(), &types.ListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || !items[0].IsRead {
		t.Fatalf("expected one read message, got %+v", items)
	}

	if err := svc.Delete(context.Background(), message.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.MarkRead(context.Background(), message.ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
