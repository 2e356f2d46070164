package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
)

type entityLister[T any] interface {
	List(ctx context.Context, filter repository.ListFilter) ([]*T, error)
}

type blogPostFinder interface {
	FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)
}

// ContentService assembles the public read views that span several tables.
type ContentService struct {
	categories    entityFinder[entity.DonationCategory]
	events        entityFinder[entity.Event]
	categoryCards entityLister[entity.DonationCard]
	eventCards    entityLister[entity.EventDonationCard]
	categoryBanks entityLister[entity.CategoryBankDetails]
	eventBanks    entityLister[entity.EventBankDetails]
	posts         blogPostFinder
}

func NewContentService(
	categories entityFinder[entity.DonationCategory],
	events entityFinder[entity.Event],
	categoryCards entityLister[entity.DonationCard],
	eventCards entityLister[entity.EventDonationCard],
	categoryBanks entityLister[entity.CategoryBankDetails],
	eventBanks entityLister[entity.EventBankDetails],
	posts blogPostFinder,
) *ContentService {
	return &ContentService{
		categories:    categories,
		events:        events,
		categoryCards: categoryCards,
		eventCards:    eventCards,
		categoryBanks: categoryBanks,
		eventBanks:    eventBanks,
		posts:         posts,
	}
}

func (s *ContentService) GetCategoryDetails(ctx context.Context, id uint64) (*entity.CategoryDetails, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}

	filter := repository.ListFilter{ActiveOnly: true, ParentID: id}
	cards, err := s.categoryCards.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	banks, err := s.categoryBanks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &entity.CategoryDetails{Category: category, Cards: cards, BankDetails: banks}, nil
}

func (s *ContentService) GetEventDetails(ctx context.Context, id uint64) (*entity.EventDetails, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil || !event.IsActive {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, id)
	}

	filter := repository.ListFilter{ActiveOnly: true, ParentID: id}
	cards, err := s.eventCards.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	banks, err := s.eventBanks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &entity.EventDetails{Event: event, Cards: cards, BankDetails: banks}, nil
}

func (s *ContentService) GetPublishedPost(ctx context.Context, slug string) (*entity.BlogPost, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrInvalidRequest
	}

	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.Published {
		return nil, fmt.Errorf("%w: blog post %s", ErrNotFound, slug)
	}
	return post, nil
}
