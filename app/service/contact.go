package service

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type contactRepository interface {
	Create(ctx context.Context, item *entity.ContactMessage) error
	List(ctx context.Context, filter repository.ListFilter) ([]*entity.ContactMessage, error)
	MarkRead(ctx context.Context, id uint64, read bool) error
	Delete(ctx context.Context, id uint64) error
}

type ContactService struct {
	repo contactRepository
}

func NewContactService(repo contactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Submit(ctx context.Context, req *types.ContactRequest) (*entity.ContactMessage, error) {
	message := &entity.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *ContactService) List(ctx context.Context, req *types.ListRequest) ([]*entity.ContactMessage, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, repository.ListFilter{Limit: limit, Offset: req.Offset})
}

func (s *ContactService) MarkRead(ctx context.Context, id uint64, read bool) error {
	if err := s.repo.MarkRead(ctx, id, read); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ContactService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
