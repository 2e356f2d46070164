package controller

import (
	"context"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/gateway"
	"github.com/vibast-solutions/ms-go-donations/app/mailer"
	"github.com/vibast-solutions/ms-go-donations/app/receipt"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/config"
)

type controllerDonationRepo struct {
	createFn          func(ctx context.Context, donation *entity.Donation) error
	findByIDFn        func(ctx context.Context, id uint64) (*entity.Donation, error)
	findByPaymentIDFn func(ctx context.Context, paymentID string) (*entity.Donation, error)
	listFn            func(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error)
	deleteFn          func(ctx context.Context, id uint64) error
}

func (r *controllerDonationRepo) Create(ctx context.Context, donation *entity.Donation) error {
	if r.createFn != nil {
		return r.createFn(ctx, donation)
	}
	return nil
}

func (r *controllerDonationRepo) TransitionStatus(context.Context, repository.DonationTransition) (bool, error) {
	return false, nil
}

func (r *controllerDonationRepo) FindByID(ctx context.Context, id uint64) (*entity.Donation, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *controllerDonationRepo) FindByPaymentID(ctx context.Context, paymentID string) (*entity.Donation, error) {
	if r.findByPaymentIDFn != nil {
		return r.findByPaymentIDFn(ctx, paymentID)
	}
	return nil, nil
}

func (r *controllerDonationRepo) List(ctx context.Context, filter repository.DonationFilter) ([]*entity.Donation, error) {
	if r.listFn != nil {
		return r.listFn(ctx, filter)
	}
	return []*entity.Donation{}, nil
}

func (r *controllerDonationRepo) ListPendingBefore(context.Context, time.Time, int32) ([]*entity.Donation, error) {
	return []*entity.Donation{}, nil
}

func (r *controllerDonationRepo) ListReceiptPending(context.Context, int32) ([]*entity.Donation, error) {
	return []*entity.Donation{}, nil
}

func (r *controllerDonationRepo) MarkReceiptSent(context.Context, uint64, time.Time) (bool, error) {
	return false, nil
}

func (r *controllerDonationRepo) UnmarkReceiptSent(context.Context, uint64, time.Time) error {
	return nil
}

func (r *controllerDonationRepo) MarkNotificationSent(context.Context, uint64, time.Time) (bool, error) {
	return false, nil
}

func (r *controllerDonationRepo) UnmarkNotificationSent(context.Context, uint64, time.Time) error {
	return nil
}

func (r *controllerDonationRepo) Delete(ctx context.Context, id uint64) error {
	if r.deleteFn != nil {
		return r.deleteFn(ctx, id)
	}
	return nil
}

type controllerEventRepo struct{}

func (r *controllerEventRepo) Create(context.Context, *entity.DonationEvent) error {
	return nil
}

type controllerCallbackRepo struct {
	callbacks []*entity.DonationCallback
}

func (r *controllerCallbackRepo) Create(_ context.Context, callback *entity.DonationCallback) error {
	r.callbacks = append(r.callbacks, callback)
	return nil
}

type controllerCheckoutRepo struct {
	sessions map[string]*entity.CheckoutSession
}

func (r *controllerCheckoutRepo) Save(_ context.Context, session *entity.CheckoutSession) error {
	if r.sessions == nil {
		r.sessions = map[string]*entity.CheckoutSession{}
	}
	r.sessions[session.PaymentID] = session
	return nil
}

func (r *controllerCheckoutRepo) Find(_ context.Context, paymentID string) (*entity.CheckoutSession, error) {
	return r.sessions[paymentID], nil
}

func (r *controllerCheckoutRepo) Delete(_ context.Context, paymentID string) error {
	delete(r.sessions, paymentID)
	return nil
}

type controllerUserRepo struct{}

func (r *controllerUserRepo) FindByID(context.Context, uint64) (*entity.User, error) {
	return nil, nil
}

func (r *controllerUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}

type controllerFinder[T any] struct {
	items map[uint64]*T
}

func (f *controllerFinder[T]) FindByID(_ context.Context, id uint64) (*T, error) {
	return f.items[id], nil
}

type controllerRenderer struct{}

func (r *controllerRenderer) HTML(data *receipt.Data) ([]byte, error) {
	return []byte("<p>" + data.InvoiceNumber + "</p>"), nil
}

func (r *controllerRenderer) PNG(data *receipt.Data) ([]byte, error) {
	return []byte("png:" + data.InvoiceNumber), nil
}

type controllerMailer struct{}

func (m *controllerMailer) Send(context.Context, *mailer.Message) error {
	return nil
}

type donationControllerDeps struct {
	donations *controllerDonationRepo
	callbacks *controllerCallbackRepo
	checkouts *controllerCheckoutRepo
}

func newDonationControllerForTest(repo *controllerDonationRepo) (*DonationController, *donationControllerDeps) {
	deps := &donationControllerDeps{
		donations: repo,
		callbacks: &controllerCallbackRepo{},
		checkouts: &controllerCheckoutRepo{},
	}

	catalog := service.DonationCatalog{
		Categories: &controllerFinder[entity.DonationCategory]{items: map[uint64]*entity.DonationCategory{
			3: {ID: 3, Name: "Annadanam", IsActive: true},
		}},
		Events:     &controllerFinder[entity.Event]{},
		Cards:      &controllerFinder[entity.DonationCard]{},
		EventCards: &controllerFinder[entity.EventDonationCard]{},
	}
	cfg := &config.Config{
		App: config.AppConfig{
			PublicBaseURL:   "https://api.temple.example",
			FrontendBaseURL: "https://temple.example",
		},
		Receipts: config.ReceiptsConfig{TempleName: "Sri Temple", InvoicePrefix: "TMPL"},
		Jobs:     config.JobsConfig{PendingStaleAfter: 30 * time.Minute, BatchSize: 10},
	}
	registry := gateway.NewRegistry(gateway.NewPayUProvider(gateway.PayUConfig{
		MerchantKey: "gtKFFx",
		Salt:        "eCwWELxi",
		PaymentURL:  "https://test.payu.in/_payment",
	}))

	receipts := service.NewReceiptService(repo, catalog, &controllerRenderer{}, &controllerMailer{}, cfg)
	donations := service.NewDonationService(
		repo,
		&controllerEventRepo{},
		deps.callbacks,
		deps.checkouts,
		&controllerUserRepo{},
		catalog,
		registry,
		receipts,
		cfg,
	)
	return NewDonationController(donations, receipts, cfg.App.FrontendBaseURL), deps
}
