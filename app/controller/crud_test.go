package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type controllerCategoryService struct {
	created    *entity.DonationCategory
	createErr  error
	getFn      func(ctx context.Context, id uint64) (*entity.DonationCategory, error)
	deleteErr  error
	lastFilter repository.ListFilter
}

func (s *controllerCategoryService) Name() string {
	return "category"
}

func (s *controllerCategoryService) Create(_ context.Context, payload types.EntityPayload[entity.DonationCategory]) (*entity.DonationCategory, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	item := &entity.DonationCategory{ID: 1}
	payload.ApplyTo(item)
	s.created = item
	return item, nil
}

func (s *controllerCategoryService) Update(_ context.Context, id uint64, payload types.EntityPayload[entity.DonationCategory]) (*entity.DonationCategory, error) {
	item := &entity.DonationCategory{ID: id}
	payload.ApplyTo(item)
	return item, nil
}

func (s *controllerCategoryService) Delete(context.Context, uint64) error {
	return s.deleteErr
}

func (s *controllerCategoryService) Get(ctx context.Context, id uint64) (*entity.DonationCategory, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, service.ErrNotFound
}

func (s *controllerCategoryService) List(_ context.Context, filter repository.ListFilter) ([]*entity.DonationCategory, error) {
	s.lastFilter = filter
	return nil, nil
}

func newCategoryControllerForTest(svc *controllerCategoryService) *CRUDController[entity.DonationCategory] {
	return NewCRUDController[entity.DonationCategory](svc, func() types.EntityPayload[entity.DonationCategory] {
		return &types.CategoryPayload{}
	})
}

func TestCRUDCreateValidatesPayload(t *testing.T) {
	svc := &controllerCategoryService{}
	ctrl := newCategoryControllerForTest(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", bytes.NewBufferString(`{"name":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.Create(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if svc.created != nil {
		t.Fatalf("service must not be called for an invalid payload")
	}
}

func TestCRUDCreateSuccess(t *testing.T) {
	svc := &controllerCategoryService{}
	ctrl := newCategoryControllerForTest(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", bytes.NewBufferString(`{"name":"Annadanam","description":"Feed devotees","is_active":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.Create(ctx)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var payload entity.DonationCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.ID != 1 || payload.Name != "Annadanam" {
		t.Fatalf("unexpected category: %+v", payload)
	}
}

func TestCRUDCreateConflict(t *testing.T) {
	svc := &controllerCategoryService{createErr: service.ErrConflict}
	ctrl := newCategoryControllerForTest(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/admin/categories", bytes.NewBufferString(`{"name":"Annadanam"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.Create(ctx)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCRUDGetNotFound(t *testing.T) {
	ctrl := newCategoryControllerForTest(&controllerCategoryService{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/categories/4", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("4")

	_ = ctrl.Get(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCRUDGetInvalidID(t *testing.T) {
	ctrl := newCategoryControllerForTest(&controllerCategoryService{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/categories/abc", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("abc")

	_ = ctrl.Get(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCRUDDeleteInternalError(t *testing.T) {
	ctrl := newCategoryControllerForTest(&controllerCategoryService{deleteErr: errors.New("db down")})
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/admin/categories/4", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("4")

	_ = ctrl.Delete(ctx)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCRUDListActiveForcesActiveFilter(t *testing.T) {
	svc := &controllerCategoryService{}
	ctrl := newCategoryControllerForTest(svc)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/categories?active=false", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.ListActive(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.lastFilter.ActiveOnly || svc.lastFilter.Limit != defaultPublicListLimit {
		t.Fatalf("unexpected filter: %+v", svc.lastFilter)
	}
	if rec.Body.String() == "" || !bytes.Contains(rec.Body.Bytes(), []byte(`"items":[]`)) {
		t.Fatalf("expected an empty item list, got %s", rec.Body.String())
	}
}

func TestCRUDListRejectsBadLimit(t *testing.T) {
	ctrl := newCategoryControllerForTest(&controllerCategoryService{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/categories?limit=1000", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.List(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
