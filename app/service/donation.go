package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/factory"
	"github.com/vibast-solutions/ms-go-donations/app/gateway"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"
)

const (
	defaultListLimit = int32(100)
	defaultBatchSize = int32(100)

	transactionIDPrefix   = "TMP"
	transactionIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	transactionIDLength   = 20
)

type donationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	TransitionStatus(ctx context.Context, transition repository.DonationTransition) (bool, error)
	FindByID(ctx context.Context, id uint64) (*entity.Donation, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*entity.Donation, error)
	List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error)
	Delete(ctx context.Context, id uint64) error
}

type donationEventRepository interface {
	Create(ctx context.Context, event *entity.DonationEvent) error
}

type donationCallbackRepository interface {
	Create(ctx context.Context, callback *entity.DonationCallback) error
}

type checkoutRepository interface {
	Save(ctx context.Context, session *entity.CheckoutSession) error
	Find(ctx context.Context, paymentID string) (*entity.CheckoutSession, error)
	Delete(ctx context.Context, paymentID string) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type entityFinder[T any] interface {
	FindByID(ctx context.Context, id uint64) (*T, error)
}

// DonationCatalog gives the donation flow read access to donation targets.
type DonationCatalog struct {
	Categories entityFinder[entity.DonationCategory]
	Events     entityFinder[entity.Event]
	Cards      entityFinder[entity.DonationCard]
	EventCards entityFinder[entity.EventDonationCard]
}

// donationNotifier is told about every donation this process moved to completed.
type donationNotifier interface {
	DonationCompleted(ctx context.Context, donation *entity.Donation)
}

type DonationService struct {
	donationRepo donationRepository
	eventRepo    donationEventRepository
	callbackRepo donationCallbackRepository
	checkoutRepo checkoutRepository
	userRepo     userFinder
	catalog      DonationCatalog
	providerReg  *gateway.Registry
	notifier     donationNotifier
	appCfg       config.AppConfig
	receiptsCfg  config.ReceiptsConfig
	jobsCfg      config.JobsConfig
	logger       logrus.FieldLogger
}

func NewDonationService(
	donationRepo donationRepository,
	eventRepo donationEventRepository,
	callbackRepo donationCallbackRepository,
	checkoutRepo checkoutRepository,
	userRepo userFinder,
	catalog DonationCatalog,
	providerReg *gateway.Registry,
	notifier donationNotifier,
	cfg *config.Config,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		eventRepo:    eventRepo,
		callbackRepo: callbackRepo,
		checkoutRepo: checkoutRepo,
		userRepo:     userRepo,
		catalog:      catalog,
		providerReg:  providerReg,
		notifier:     notifier,
		appCfg:       cfg.App,
		receiptsCfg:  cfg.Receipts,
		jobsCfg:      cfg.Jobs,
		logger:       factory.NewModuleLogger("donation_service"),
	}
}

// donationTarget is the resolved category or event a donation goes to.
type donationTarget struct {
	kind        string
	categoryID  *uint64
	eventID     *uint64
	cardID      *uint64
	productInfo string
}

// Initiate records one pending donation and prepares the signed gateway handoff for it.
func (s *DonationService) Initiate(ctx context.Context, req *types.CreateDonationRequest) (*entity.Donation, *entity.CheckoutSession, error) {
	if req == nil || req.Amount <= 0 {
		return nil, nil, ErrInvalidRequest
	}

	target, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	var userID *uint64
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if user != nil {
		id := user.ID
		userID = &id
	}

	provider, err := s.providerReg.Default()
	if err != nil {
		return nil, nil, ErrProviderUnsupported
	}

	txnID, err := newTransactionID()
	if err != nil {
		return nil, nil, err
	}

	checkout, err := provider.BuildCheckout(ctx, &gateway.CheckoutInput{
		TransactionID: txnID,
		Amount:        req.Amount,
		ProductInfo:   target.productInfo,
		FirstName:     req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		SuccessURL:    s.returnURL(provider.Code(), types.OutcomeSuccess),
		FailureURL:    s.returnURL(provider.Code(), types.OutcomeFailure),
		UDF:           target.udf(),
	})
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	donation := &entity.Donation{
		UserID:     userID,
		CategoryID: target.categoryID,
		EventID:    target.eventID,
		CardID:     target.cardID,
		Amount:     req.Amount,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		PanCard:    req.PanCard,
		Message:    req.Message,
		PaymentID:  txnID,
		Status:     entity.DonationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, nil, err
	}

	_ = s.eventRepo.Create(ctx, &entity.DonationEvent{
		DonationID: donation.ID,
		EventType:  entity.DonationEventCreated,
		NewStatus:  donation.Status,
		Source:     "api",
		CreatedAt:  now,
	})

	session := &entity.CheckoutSession{
		PaymentID: txnID,
		Provider:  provider.Code(),
		Action:    checkout.Action,
		Params:    checkout.Params,
		CreatedAt: now,
	}
	if err := s.checkoutRepo.Save(ctx, session); err != nil {
		s.logger.WithError(err).WithField("txnid", txnID).Warn("checkout_store_failed")
	}

	return donation, session, nil
}

// Checkout returns the staged gateway handoff of a donation that is still pending.
func (s *DonationService) Checkout(ctx context.Context, txnID string) (*entity.CheckoutSession, error) {
	donation, err := s.findByTransactionID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if donation.Status != entity.DonationStatusPending {
		return nil, ErrStatusConflict
	}

	session, err := s.checkoutRepo.Find(ctx, donation.PaymentID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrCheckoutUnavailable
	}
	return session, nil
}

func (s *DonationService) GetByTransactionID(ctx context.Context, txnID string) (*entity.DonationDetails, error) {
	donation, err := s.findByTransactionID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	details := &entity.DonationDetails{Donation: donation}

	if donation.UserID != nil {
		if details.User, err = s.userRepo.FindByID(ctx, *donation.UserID); err != nil {
			return nil, err
		}
	}
	if donation.CategoryID != nil {
		if details.Category, err = s.catalog.Categories.FindByID(ctx, *donation.CategoryID); err != nil {
			return nil, err
		}
	}
	if donation.EventID != nil {
		if details.Event, err = s.catalog.Events.FindByID(ctx, *donation.EventID); err != nil {
			return nil, err
		}
	}
	if donation.CardID != nil {
		if donation.TargetType() == entity.DonationTargetEvent {
			details.EventCard, err = s.catalog.EventCards.FindByID(ctx, *donation.CardID)
		} else {
			details.CategoryCard, err = s.catalog.Cards.FindByID(ctx, *donation.CardID)
		}
		if err != nil {
			return nil, err
		}
	}

	return details, nil
}

func (s *DonationService) GetDonation(ctx context.Context, id uint64) (*entity.Donation, error) {
	donation, err := s.donationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) ListDonations(ctx context.Context, req *types.ListDonationsRequest) ([]*entity.Donation, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	return s.donationRepo.List(ctx, repository.DonationFilter{
		Status:     req.Status,
		CategoryID: req.CategoryID,
		EventID:    req.EventID,
		Email:      req.Email,
		Limit:      limit,
		Offset:     req.Offset,
	})
}

func (s *DonationService) DeleteDonation(ctx context.Context, id uint64) error {
	if err := s.donationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDonationNotFound
		}
		return err
	}
	return nil
}

func (s *DonationService) findByTransactionID(ctx context.Context, txnID string) (*entity.Donation, error) {
	txnID = strings.TrimSpace(txnID)
	if txnID == "" {
		return nil, ErrInvalidRequest
	}

	donation, err := s.donationRepo.FindByPaymentID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) resolveTarget(ctx context.Context, req *types.CreateDonationRequest) (*donationTarget, error) {
	switch {
	case req.EventID != nil:
		return s.resolveEventTarget(ctx, *req.EventID, req.CardID)
	case req.CategoryID != nil:
		return s.resolveCategoryTarget(ctx, *req.CategoryID, req.CardID)
	case req.CardID != nil:
		card, err := s.catalog.Cards.FindByID(ctx, *req.CardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, fmt.Errorf("%w: donation card %d", ErrNotFound, *req.CardID)
		}
		return s.resolveCategoryTarget(ctx, card.CategoryID, req.CardID)
	default:
		return nil, fmt.Errorf("%w: donation target is required", ErrInvalidRequest)
	}
}

func (s *DonationService) resolveCategoryTarget(ctx context.Context, categoryID uint64, cardID *uint64) (*donationTarget, error) {
	category, err := s.catalog.Categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
	}
	if !category.IsActive {
		return nil, fmt.Errorf("%w: category is not accepting donations", ErrInvalidRequest)
	}

	target := &donationTarget{
		kind:        entity.DonationTargetCategory,
		categoryID:  &category.ID,
		productInfo: category.Name,
	}

	if cardID != nil {
		card, err := s.catalog.Cards.FindByID(ctx, *cardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, fmt.Errorf("%w: donation card %d", ErrNotFound, *cardID)
		}
		if card.CategoryID != category.ID || !card.IsActive {
			return nil, fmt.Errorf("%w: donation card does not belong to the category", ErrInvalidRequest)
		}
		target.cardID = &card.ID
	}

	return target, nil
}

func (s *DonationService) resolveEventTarget(ctx context.Context, eventID uint64, cardID *uint64) (*donationTarget, error) {
	event, err := s.catalog.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
	}
	if !event.IsActive || !event.DonationEnabled {
		return nil, fmt.Errorf("%w: event is not accepting donations", ErrInvalidRequest)
	}

	target := &donationTarget{
		kind:        entity.DonationTargetEvent,
		eventID:     &event.ID,
		productInfo: event.Title,
	}

	if cardID != nil {
		card, err := s.catalog.EventCards.FindByID(ctx, *cardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, fmt.Errorf("%w: event donation card %d", ErrNotFound, *cardID)
		}
		if card.EventID != event.ID || !card.IsActive {
			return nil, fmt.Errorf("%w: donation card does not belong to the event", ErrInvalidRequest)
		}
		target.cardID = &card.ID
	}

	return target, nil
}

// udf is echoed back by the gateway: target kind, target id, card id.
func (t *donationTarget) udf() [5]string {
	var out [5]string
	out[0] = t.kind
	if t.categoryID != nil {
		out[1] = strconv.FormatUint(*t.categoryID, 10)
	}
	if t.eventID != nil {
		out[1] = strconv.FormatUint(*t.eventID, 10)
	}
	if t.cardID != nil {
		out[2] = strconv.FormatUint(*t.cardID, 10)
	}
	return out
}

func (s *DonationService) returnURL(provider, outcome string) string {
	return s.appCfg.PublicBaseURL + "/payments/" + provider + "/" + outcome
}

func (s *DonationService) invoiceNumber(donation *entity.Donation, at time.Time) string {
	prefix := strings.TrimSpace(s.receiptsCfg.InvoicePrefix)
	if prefix == "" {
		prefix = "TMPL"
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, at.Year(), donation.ID)
}

func newTransactionID() (string, error) {
	id, err := gonanoid.Generate(transactionIDAlphabet, transactionIDLength)
	if err != nil {
		return "", err
	}
	return transactionIDPrefix + id, nil
}
