package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/mailer"
	"github.com/vibast-solutions/ms-go-donations/app/receipt"
	"github.com/vibast-solutions/ms-go-donations/app/repository"
)

type serviceDonationRepo struct {
	mu        sync.Mutex
	donations map[uint64]*entity.Donation
	nextID    uint64
	createErr error
}

func newServiceDonationRepo() *serviceDonationRepo {
	return &serviceDonationRepo{donations: map[uint64]*entity.Donation{}, nextID: 1}
}

func (r *serviceDonationRepo) Create(_ context.Context, donation *entity.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, item := range r.donations {
		if item.PaymentID == donation.PaymentID {
			return repository.ErrDuplicate
		}
	}
	donation.ID = r.nextID
	r.nextID++
	copyItem := *donation
	r.donations[donation.ID] = &copyItem
	return nil
}

func (r *serviceDonationRepo) TransitionStatus(_ context.Context, t repository.DonationTransition) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.donations {
		if item.PaymentID != t.PaymentID || item.Status != entity.DonationStatusPending {
			continue
		}
		item.Status = t.Status
		if t.GatewayPaymentID != nil {
			item.GatewayPaymentID = t.GatewayPaymentID
		}
		if t.GatewayResponse != nil {
			item.PaymentGatewayResponse = t.GatewayResponse
		}
		if t.InvoiceNumber != nil {
			item.InvoiceNumber = t.InvoiceNumber
		}
		item.UpdatedAt = t.UpdatedAt
		return true, nil
	}
	return false, nil
}

func (r *serviceDonationRepo) FindByID(_ context.Context, id uint64) (*entity.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.donations[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *serviceDonationRepo) FindByPaymentID(_ context.Context, paymentID string) (*entity.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.donations {
		if item.PaymentID == paymentID {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

func (r *serviceDonationRepo) List(_ context.Context, filter repository.DonationFilter) ([]*entity.Donation, error) {
	items := r.matching(func(item *entity.Donation) bool {
		if filter.Status != "" && item.Status != filter.Status {
			return false
		}
		if filter.CategoryID > 0 && (item.CategoryID == nil || *item.CategoryID != filter.CategoryID) {
			return false
		}
		if filter.EventID > 0 && (item.EventID == nil || *item.EventID != filter.EventID) {
			return false
		}
		return filter.Email == "" || item.Email == filter.Email
	})
	return limitItems(items, filter.Limit), nil
}

func (r *serviceDonationRepo) ListPendingBefore(_ context.Context, cutoff time.Time, limit int32) ([]*entity.Donation, error) {
	items := r.matching(func(item *entity.Donation) bool {
		return item.Status == entity.DonationStatusPending && !item.CreatedAt.After(cutoff)
	})
	return limitItems(items, limit), nil
}

func (r *serviceDonationRepo) ListReceiptPending(_ context.Context, limit int32) ([]*entity.Donation, error) {
	items := r.matching(func(item *entity.Donation) bool {
		return item.Status == entity.DonationStatusCompleted && !item.ReceiptSent
	})
	return limitItems(items, limit), nil
}

func (r *serviceDonationRepo) MarkReceiptSent(_ context.Context, id uint64, _ time.Time) (bool, error) {
	return r.setFlag(id, func(d *entity.Donation) *bool { return &d.ReceiptSent }, true), nil
}

func (r *serviceDonationRepo) UnmarkReceiptSent(_ context.Context, id uint64, _ time.Time) error {
	r.setFlag(id, func(d *entity.Donation) *bool { return &d.ReceiptSent }, false)
	return nil
}

func (r *serviceDonationRepo) MarkNotificationSent(_ context.Context, id uint64, _ time.Time) (bool, error) {
	return r.setFlag(id, func(d *entity.Donation) *bool { return &d.NotificationSent }, true), nil
}

func (r *serviceDonationRepo) UnmarkNotificationSent(_ context.Context, id uint64, _ time.Time) error {
	r.setFlag(id, func(d *entity.Donation) *bool { return &d.NotificationSent }, false)
	return nil
}

func (r *serviceDonationRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.donations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.donations, id)
	return nil
}

func (r *serviceDonationRepo) setFlag(id uint64, field func(*entity.Donation) *bool, value bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.donations[id]
	if !ok {
		return false
	}
	flag := field(item)
	if *flag == value {
		return false
	}
	*flag = value
	return true
}

func (r *serviceDonationRepo) matching(keep func(*entity.Donation) bool) []*entity.Donation {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]*entity.Donation, 0)
	for _, item := range r.donations {
		if keep(item) {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r *serviceDonationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.donations)
}

func (r *serviceDonationRepo) set(donation *entity.Donation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if donation.ID == 0 {
		donation.ID = r.nextID
		r.nextID++
	}
	copyItem := *donation
	r.donations[donation.ID] = &copyItem
}

func limitItems(items []*entity.Donation, limit int32) []*entity.Donation {
	if limit <= 0 || len(items) <= int(limit) {
		return items
	}
	return items[:limit]
}

type serviceEventRepo struct {
	events []*entity.DonationEvent
}

func (r *serviceEventRepo) Create(_ context.Context, event *entity.DonationEvent) error {
	copyItem := *event
	r.events = append(r.events, &copyItem)
	return nil
}

type serviceCallbackRepo struct {
	callbacks []*entity.DonationCallback
}

func (r *serviceCallbackRepo) Create(_ context.Context, callback *entity.DonationCallback) error {
	copyItem := *callback
	r.callbacks = append(r.callbacks, &copyItem)
	return nil
}

func (r *serviceCallbackRepo) last() *entity.DonationCallback {
	if len(r.callbacks) == 0 {
		return nil
	}
	return r.callbacks[len(r.callbacks)-1]
}

type serviceCheckoutRepo struct {
	sessions map[string]*entity.CheckoutSession
	saveErr  error
}

func newServiceCheckoutRepo() *serviceCheckoutRepo {
	return &serviceCheckoutRepo{sessions: map[string]*entity.CheckoutSession{}}
}

func (r *serviceCheckoutRepo) Save(_ context.Context, session *entity.CheckoutSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copyItem := *session
	r.sessions[session.PaymentID] = &copyItem
	return nil
}

func (r *serviceCheckoutRepo) Find(_ context.Context, paymentID string) (*entity.CheckoutSession, error) {
	session, ok := r.sessions[paymentID]
	if !ok {
		return nil, nil
	}
	copyItem := *session
	return &copyItem, nil
}

func (r *serviceCheckoutRepo) Delete(_ context.Context, paymentID string) error {
	delete(r.sessions, paymentID)
	return nil
}

// serviceTable is an in-memory stand-in for one generic CRUD table.
type serviceTable[T any] struct {
	items     map[uint64]*T
	nextID    uint64
	id        func(*T) uint64
	setID     func(*T, uint64)
	active    func(*T) bool
	parent    func(*T) uint64
	createErr error
}

func newServiceTable[T any](id func(*T) uint64, setID func(*T, uint64)) *serviceTable[T] {
	return &serviceTable[T]{items: map[uint64]*T{}, nextID: 1, id: id, setID: setID}
}

func (r *serviceTable[T]) Create(_ context.Context, item *T) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.setID(item, r.nextID)
	r.nextID++
	copyItem := *item
	r.items[r.id(item)] = &copyItem
	return nil
}

func (r *serviceTable[T]) put(item *T) {
	if r.id(item) >= r.nextID {
		r.nextID = r.id(item) + 1
	}
	copyItem := *item
	r.items[r.id(item)] = &copyItem
}

func (r *serviceTable[T]) Update(_ context.Context, item *T) error {
	if _, ok := r.items[r.id(item)]; !ok {
		return repository.ErrNotFound
	}
	copyItem := *item
	r.items[r.id(item)] = &copyItem
	return nil
}

func (r *serviceTable[T]) Delete(_ context.Context, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *serviceTable[T]) FindByID(_ context.Context, id uint64) (*T, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *serviceTable[T]) List(_ context.Context, filter repository.ListFilter) ([]*T, error) {
	items := make([]*T, 0)
	for _, item := range r.items {
		if filter.ActiveOnly && r.active != nil && !r.active(item) {
			continue
		}
		if filter.ParentID > 0 && r.parent != nil && r.parent(item) != filter.ParentID {
			continue
		}
		copyItem := *item
		items = append(items, &copyItem)
	}
	sort.Slice(items, func(i, j int) bool { return r.id(items[i]) < r.id(items[j]) })
	return items, nil
}

type serviceUserRepo struct {
	*serviceTable[entity.User]
}

func newServiceUserRepo() *serviceUserRepo {
	return &serviceUserRepo{serviceTable: newServiceTable(
		func(u *entity.User) uint64 { return u.ID },
		func(u *entity.User, id uint64) { u.ID = id },
	)}
}

func (r *serviceUserRepo) Create(ctx context.Context, user *entity.User) error {
	for _, item := range r.items {
		if item.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	return r.serviceTable.Create(ctx, user)
}

func (r *serviceUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, item := range r.items {
		if item.Email == email {
			copyItem := *item
			return &copyItem, nil
		}
	}
	return nil, nil
}

type serviceCatalog struct {
	categories *serviceTable[entity.DonationCategory]
	events     *serviceTable[entity.Event]
	cards      *serviceTable[entity.DonationCard]
	eventCards *serviceTable[entity.EventDonationCard]
}

func newServiceCatalog() *serviceCatalog {
	categories := newServiceTable(
		func(c *entity.DonationCategory) uint64 { return c.ID },
		func(c *entity.DonationCategory, id uint64) { c.ID = id },
	)
	categories.active = func(c *entity.DonationCategory) bool { return c.IsActive }

	events := newServiceTable(
		func(e *entity.Event) uint64 { return e.ID },
		func(e *entity.Event, id uint64) { e.ID = id },
	)
	events.active = func(e *entity.Event) bool { return e.IsActive }

	cards := newServiceTable(
		func(c *entity.DonationCard) uint64 { return c.ID },
		func(c *entity.DonationCard, id uint64) { c.ID = id },
	)
	cards.active = func(c *entity.DonationCard) bool { return c.IsActive }
	cards.parent = func(c *entity.DonationCard) uint64 { return c.CategoryID }

	eventCards := newServiceTable(
		func(c *entity.EventDonationCard) uint64 { return c.ID },
		func(c *entity.EventDonationCard, id uint64) { c.ID = id },
	)
	eventCards.active = func(c *entity.EventDonationCard) bool { return c.IsActive }
	eventCards.parent = func(c *entity.EventDonationCard) uint64 { return c.EventID }

	return &serviceCatalog{categories: categories, events: events, cards: cards, eventCards: eventCards}
}

func (c *serviceCatalog) donationCatalog() DonationCatalog {
	return DonationCatalog{
		Categories: c.categories,
		Events:     c.events,
		Cards:      c.cards,
		EventCards: c.eventCards,
	}
}

type serviceNotifier struct {
	completed []string
}

func (n *serviceNotifier) DonationCompleted(_ context.Context, donation *entity.Donation) {
	n.completed = append(n.completed, donation.PaymentID)
}

type serviceRenderer struct{}

func (serviceRenderer) HTML(data *receipt.Data) ([]byte, error) {
	return []byte("<p>" + data.InvoiceNumber + "</p>"), nil
}

func (serviceRenderer) PNG(data *receipt.Data) ([]byte, error) {
	return []byte("png:" + data.InvoiceNumber), nil
}

type serviceMailer struct {
	sent []*mailer.Message
	err  error
}

func (m *serviceMailer) Send(_ context.Context, msg *mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
