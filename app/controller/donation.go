package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/mapper"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
)

const (
	returnStatusError = "error"

	successPagePath = "/payment/success"
	failurePagePath = "/payment/failure"
)

type DonationController struct {
	donationService *service.DonationService
	receiptService  *service.ReceiptService
	frontendBaseURL string
	logger          logrus.FieldLogger
}

func NewDonationController(donationService *service.DonationService, receiptService *service.ReceiptService, frontendBaseURL string) *DonationController {
	return &DonationController{
		donationService: donationService,
		receiptService:  receiptService,
		frontendBaseURL: frontendBaseURL,
		logger:          factory.NewModuleLogger("donations-controller"),
	}
}

func (c *DonationController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *DonationController) InitiateDonation(ctx echo.Context) error {
	req, err := types.NewCreateDonationRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	donation, session, err := c.donationService.Initiate(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrProviderUnsupported):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return writeError(ctx, http.StatusNotFound, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Initiate donation failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.InitiateDonationResponse{
		Donation: mapper.DonationToResponse(donation),
		Gateway:  mapper.CheckoutToGatewayForm(session),
	})
}

func (c *DonationController) GetCheckout(ctx echo.Context) error {
	req, err := types.NewTransactionRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	session, err := c.donationService.Checkout(ctx.Request().Context(), req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound), errors.Is(err, service.ErrCheckoutUnavailable):
			return writeError(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStatusConflict):
			return writeError(ctx, http.StatusConflict, "donation is no longer pending")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get checkout failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.CheckoutResponse{
		TransactionID: session.PaymentID,
		Provider:      session.Provider,
		Gateway:       mapper.CheckoutToGatewayForm(session),
	})
}

func (c *DonationController) GetDonation(ctx echo.Context) error {
	req, err := types.NewTransactionRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	details, err := c.donationService.GetByTransactionID(ctx.Request().Context(), req.TransactionID)
	if err != nil {
		if errors.Is(err, service.ErrDonationNotFound) {
			return writeError(ctx, http.StatusNotFound, "donation not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get donation failed")
		return writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.DonationDetailsToResponse(details))
}

func (c *DonationController) GetReceipt(ctx echo.Context) error {
	req, err := types.NewReceiptRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	body, contentType, err := c.receiptService.Render(ctx.Request().Context(), req.TransactionID, req.Format)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDonationNotFound):
			return writeError(ctx, http.StatusNotFound, "donation not found")
		case errors.Is(err, service.ErrReceiptUnavailable):
			return writeError(ctx, http.StatusConflict, "receipt is available for completed donations only")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Render receipt failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.Blob(http.StatusOK, contentType, body)
}

// GatewayReturn handles the browser form-post to surl/furl and always answers with
// a redirect to the donor facing result page.
func (c *DonationController) GatewayReturn(ctx echo.Context) error {
	req, err := types.NewProviderCallbackRequestFromContext(ctx)
	if err != nil {
		return c.redirectToResult(ctx, "", returnStatusError)
	}
	if err := req.Validate(); err != nil {
		return c.redirectToResult(ctx, req.TransactionID(), returnStatusError)
	}

	result, err := c.donationService.Reconcile(ctx.Request().Context(), req)
	if err != nil {
		if !isClientCallbackError(err) {
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Gateway return failed")
		}
		return c.redirectToResult(ctx, req.TransactionID(), returnStatusError)
	}

	return c.redirectToResult(ctx, result.Donation.PaymentID, result.Donation.Status)
}

func (c *DonationController) ProviderWebhook(ctx echo.Context) error {
	req, err := types.NewProviderCallbackRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := c.donationService.Reconcile(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProviderUnsupported), errors.Is(err, service.ErrCallbackRejected), errors.Is(err, service.ErrInvalidRequest):
			return writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDonationNotFound):
			return writeError(ctx, http.StatusNotFound, "donation not found")
		case errors.Is(err, service.ErrStatusConflict):
			return writeError(ctx, http.StatusConflict, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle provider callback failed")
			return writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.ReconcileResponse{
		TransactionID: result.Donation.PaymentID,
		Status:        result.Donation.Status,
		Changed:       result.Changed,
	})
}

func (c *DonationController) redirectToResult(ctx echo.Context, txnID, status string) error {
	page := failurePagePath
	if status == entity.DonationStatusCompleted {
		page = successPagePath
	}

	query := url.Values{}
	if txnID != "" {
		query.Set("txnid", txnID)
	}
	query.Set("status", status)

	return ctx.Redirect(http.StatusSeeOther, c.frontendBaseURL+page+"?"+query.Encode())
}

func isClientCallbackError(err error) bool {
	return errors.Is(err, service.ErrCallbackRejected) ||
		errors.Is(err, service.ErrDonationNotFound) ||
		errors.Is(err, service.ErrProviderUnsupported) ||
		errors.Is(err, service.ErrStatusConflict)
}

func writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
