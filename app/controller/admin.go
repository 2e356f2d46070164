package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/mapper"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/storage"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

const uploadFormField = "file"

type imageStore interface {
	PutImage(ctx context.Context, body io.Reader, size int64) (string, error)
	MaxBytes() int64
}

type AdminController struct {
	donationService *service.DonationService
	contactService  *service.ContactService
	images          imageStore
	logger          logrus.FieldLogger
}

func NewAdminController(donationService *service.DonationService, contactService *service.ContactService, images imageStore) *AdminController {
	return &AdminController{
		donationService: donationService,
		contactService:  contactService,
		images:          images,
		logger:          factory.NewModuleLogger("admin-controller"),
	}
}

func (c *AdminController) ListDonations(ctx echo.Context) error {
	req, err := types.NewListDonationsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query parameters")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.donationService.ListDonations(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List donations failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListResponse[types.DonationResponse]{
		Items:  mapper.DonationsToAdminResponse(items),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (c *AdminController) GetDonation(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	donation, err := c.donationService.GetDonation(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			return writeError(ctx, http.StatusNotFound, "donation not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get donation failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, mapper.DonationToAdminResponse(donation))
}

func (c *AdminController) DeleteDonation(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.donationService.DeleteDonation(ctx.Request().Context(), req.ID); err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			return writeError(ctx, http.StatusNotFound, "donation not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Delete donation failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *AdminController) ListMessages(ctx echo.Context) error {
	req, err := types.NewListRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid query parameters")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	items, err := c.contactService.List(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List messages failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	if items == nil {
		items = []*entity.ContactMessage{}
	}

	return ctx.JSON(http.StatusOK, &types.ListResponse[entity.ContactMessage]{
		Items:  items,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (c *AdminController) MarkMessageRead(ctx echo.Context) error {
	idReq, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}

	req := &types.MarkMessageReadRequest{}
	if err := ctx.Bind(req); err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	req.ID = idReq.ID
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.contactService.MarkRead(ctx.Request().Context(), req.ID, req.Read()); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(ctx, http.StatusNotFound, "message not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Mark message read failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *AdminController) DeleteMessage(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.contactService.Delete(ctx.Request().Context(), req.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(ctx, http.StatusNotFound, "message not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Delete message failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *AdminController) Upload(ctx echo.Context) error {
	if limit := c.images.MaxBytes(); limit > 0 {
		ctx.Request().Body = http.MaxBytesReader(ctx.Response(), ctx.Request().Body, limit+1<<20)
	}

	header, err := ctx.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return writeError(ctx, http.StatusRequestEntityTooLarge, storage.ErrTooLarge.Error())
		}
		return writeError(ctx, http.StatusBadRequest, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "file could not be read")
	}
	defer file.Close()

	url, err := c.images.PutImage(ctx.Request().Context(), file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			return writeError(ctx, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, storage.ErrTooLarge):
			return writeError(ctx, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, storage.ErrEmptyFile):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrNotConfigured):
			return writeError(ctx, http.StatusServiceUnavailable, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Upload failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.UploadResponse{URL: url})
}
