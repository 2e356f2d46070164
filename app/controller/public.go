package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

type PublicController struct {
	contentService *service.ContentService
	contactService *service.ContactService
	logger         logrus.FieldLogger
}

func NewPublicController(contentService *service.ContentService, contactService *service.ContactService) *PublicController {
	return &PublicController{
		contentService: contentService,
		contactService: contactService,
		logger:         factory.NewModuleLogger("public-controller"),
	}
}

func (c *PublicController) GetCategory(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	details, err := c.contentService.GetCategoryDetails(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(ctx, http.StatusNotFound, "category not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get category failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, details)
}

func (c *PublicController) GetEvent(ctx echo.Context) error {
	req, err := types.NewIDRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid id")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	details, err := c.contentService.GetEventDetails(ctx.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return writeError(ctx, http.StatusNotFound, "event not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get event failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, details)
}

func (c *PublicController) GetBlogPost(ctx echo.Context) error {
	post, err := c.contentService.GetPublishedPost(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, "invalid slug")
		case errors.Is(err, service.ErrNotFound):
			return writeError(ctx, http.StatusNotFound, "blog post not found")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get blog post failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}
	return ctx.JSON(http.StatusOK, post)
}

func (c *PublicController) SubmitContact(ctx echo.Context) error {
	req, err := types.NewContactRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if _, err := c.contactService.Submit(ctx.Request().Context(), req); err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Submit contact message failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusCreated, &types.MessageResponse{Message: "message received"})
}
