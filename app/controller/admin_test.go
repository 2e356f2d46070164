package controller

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/storage"
)

type fakeImageStore struct {
	url      string
	err      error
	received []byte
}

func (s *fakeImageStore) PutImage(_ context.Context, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.received = data
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func (s *fakeImageStore) MaxBytes() int64 {
	return 1 << 20
}

type controllerContactRepo struct {
	messages map[uint64]*entity.ContactMessage
}

func (r *controllerContactRepo) Create(_ context.Context, item *entity.ContactMessage) error {
	if r.messages == nil {
		r.messages = map[uint64]*entity.ContactMessage{}
	}
	item.ID = uint64(len(r.messages) + 1)
	r.messages[item.ID] = item
	return nil
}

func (r *controllerContactRepo) List(context.Context, repository.ListFilter) ([]*entity.ContactMessage, error) {
	out := make([]*entity.ContactMessage, 0, len(r.messages))
	for _, item := range r.messages {
		out = append(out, item)
	}
	return out, nil
}

func (r *controllerContactRepo) MarkRead(_ context.Context, id uint64, read bool) error {
	item, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	item.IsRead = read
	return nil
}

func (r *controllerContactRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.messages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func multipartUpload(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func TestUploadSuccess(t *testing.T) {
	store := &fakeImageStore{url: "https://cdn.temple.example/uploads/2026/10/a.png"}
	ctrl := NewAdminController(nil, nil, store)
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(multipartUpload(t, "file", []byte("\x89PNG\r\n\x1a\n")), rec)

	_ = ctrl.Upload(ctx)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(store.url)) {
		t.Fatalf("expected url in body, got %s", rec.Body.String())
	}
	if string(store.received) != "\x89PNG\r\n\x1a\n" {
		t.Fatalf("unexpected bytes forwarded to storage: %q", store.received)
	}
}

func TestUploadMissingFile(t *testing.T) {
	ctrl := NewAdminController(nil, nil, &fakeImageStore{})
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(multipartUpload(t, "image", []byte("data")), rec)

	_ = ctrl.Upload(ctx)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{name: "unsupported type", err: storage.ErrUnsupportedType, code: http.StatusUnsupportedMediaType},
		{name: "too large", err: storage.ErrTooLarge, code: http.StatusRequestEntityTooLarge},
		{name: "empty", err: storage.ErrEmptyFile, code: http.StatusBadRequest},
		{name: "not configured", err: storage.ErrNotConfigured, code: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewAdminController(nil, nil, &fakeImageStore{err: tc.err})
			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(multipartUpload(t, "file", []byte("GIF89a")), rec)

			_ = ctrl.Upload(ctx)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestMarkMessageRead(t *testing.T) {
	repo := &controllerContactRepo{}
	_ = repo.Create(context.Background(), &entity.ContactMessage{Name: "Ravi", Subject: "Timings"})
	ctrl := NewAdminController(nil, service.NewContactService(repo), &fakeImageStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/1/read", bytes.NewBufferString(`{"is_read":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")

	_ = ctrl.MarkMessageRead(ctx)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !repo.messages[1].IsRead {
		t.Fatalf("expected message to be marked read")
	}
}

func TestDeleteMessageNotFound(t *testing.T) {
	ctrl := NewAdminController(nil, service.NewContactService(&controllerContactRepo{}), &fakeImageStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/admin/messages/8", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("8")

	_ = ctrl.DeleteMessage(ctx)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListMessages(t *testing.T) {
	repo := &controllerContactRepo{}
	_ = repo.Create(context.Background(), &entity.ContactMessage{Name: "Ravi", Subject: "Timings"})
	ctrl := NewAdminController(nil, service.NewContactService(repo), &fakeImageStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/messages", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	_ = ctrl.ListMessages(ctx)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"subject":"Timings"`)) {
		t.Fatalf("expected message in body, got %s", rec.Body.String())
	}
}
