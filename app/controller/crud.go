package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

const defaultPublicListLimit = 100

type resourceService[T any] interface {
	Name() string
	Create(ctx context.Context, payload types.EntityPayload[T]) (*T, error)
	Update(ctx context.Context, id uint64, payload types.EntityPayload[T]) (*T, error)
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*T, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*T, error)
}

// CRUDController exposes one admin resource over the uniform list/get/create/update/delete
// routes. newPayload returns the empty write schema the request body binds into.
type CRUDController[T any] struct {
	service    resourceService[T]
	newPayload func() types.EntityPayload[T]
	logger     logrus.FieldLogger
}

func NewCRUDController[T any](svc resourceService[T], newPayload func() types.EntityPayload[T]) *CRUDController[T] {
	return &CRUDController[T]{
		service:    svc,
		newPayload: newPayload,
		logger:     factory.NewModuleLogger("admin-controller").WithField("resource", svc.Name()),
	}
}

func (c *CRUDController[T]) List(ctx echo.Context) error {
	req, err := types.NewListRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query parameters")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	return c.list(ctx, repository.ListFilter{
		ParentID:   req.ParentID,
		ActiveOnly: req.ActiveOnly,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

// ListActive is the public listing: active rows only, ordered for display.
func (c *CRUDController[T]) ListActive(ctx echo.Context) error {
	req, err := types.NewListRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query parameters")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}
	if req.Limit == 0 {
		req.Limit = defaultPublicListLimit
	}

	return c.list(ctx, repository.ListFilter{
		ParentID:   req.ParentID,
		ActiveOnly: true,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
}

func (c *CRUDController[T]) Get(ctx echo.Context) error {
	id, err := c.idFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}

	item, err := c.service.Get(ctx.Request().Context(), id)
	if err != nil {
		return c.writeServiceError(ctx, "Get", err)
	}
	return ctx.JSON(http.StatusOK, item)
}

func (c *CRUDController[T]) Create(ctx echo.Context) error {
	payload := c.newPayload()
	if err := ctx.Bind(payload); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.service.Create(ctx.Request().Context(), payload)
	if err != nil {
		return c.writeServiceError(ctx, "Create", err)
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (c *CRUDController[T]) Update(ctx echo.Context) error {
	id, err := c.idFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}

	payload := c.newPayload()
	if err := ctx.Bind(payload); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.service.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return c.writeServiceError(ctx, "Update", err)
	}
	return ctx.JSON(http.StatusOK, item)
}

func (c *CRUDController[T]) Delete(ctx echo.Context) error {
	id, err := c.idFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return c.writeServiceError(ctx, "Delete", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *CRUDController[T]) list(ctx echo.Context, filter repository.ListFilter) error {
	items, err := c.service.List(ctx.Request().Context(), filter)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	if items == nil {
		items = []*T{}
	}

	return ctx.JSON(http.StatusOK, &types.ListResponse[T]{
		Items:  items,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (c *CRUDController[T]) idFromContext(ctx echo.Context) (uint64, error) {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (c *CRUDController[T]) writeServiceError(ctx echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(ctx, http.StatusNotFound, c.service.Name()+" not found")
	case errors.Is(err, service.ErrConflict):
		return writeError(ctx, http.StatusConflict, c.service.Name()+" already exists")
	case errors.Is(err, service.ErrReferenceNotFound), errors.Is(err, service.ErrInvalidRequest):
		return writeError(ctx, http.StatusBadRequest, err.Error())
	default:
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error(op + " failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
}
