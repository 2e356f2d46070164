package types

import (
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

// EntityPayload is the validated write schema of one admin resource.
type EntityPayload[T any] interface {
	Validate() error
	ApplyTo(item *T)
}

type CategoryPayload struct {
	Name             string  `json:"name" validate:"required,min=2,max=255"`
	Description      string  `json:"description" validate:"max=5000"`
	ImageURL         string  `json:"image_url" validate:"omitempty,url,max=1024"`
	SuggestedAmounts []int64 `json:"suggested_amounts" validate:"max=20,dive,gt=0"`
	IsActive         *bool   `json:"is_active"`
	DisplayOrder     int32   `json:"display_order" validate:"gte=0"`
}

func (p *CategoryPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	return validateStruct(p)
}

func (p *CategoryPayload) ApplyTo(item *entity.DonationCategory) {
	item.Name = p.Name
	item.Description = strings.TrimSpace(p.Description)
	item.ImageURL = strings.TrimSpace(p.ImageURL)
	item.SuggestedAmounts = append([]int64{}, p.SuggestedAmounts...)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type EventPayload struct {
	Title            string     `json:"title" validate:"required,min=2,max=255"`
	Description      string     `json:"description" validate:"max=10000"`
	ImageURL         string     `json:"image_url" validate:"omitempty,url,max=1024"`
	Location         string     `json:"location" validate:"max=255"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	EndDate          *time.Time `json:"end_date"`
	SuggestedAmounts []int64    `json:"suggested_amounts" validate:"max=20,dive,gt=0"`
	DonationEnabled  *bool      `json:"donation_enabled"`
	IsActive         *bool      `json:"is_active"`
	DisplayOrder     int32      `json:"display_order" validate:"gte=0"`
}

func (p *EventPayload) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

func (p *EventPayload) ApplyTo(item *entity.Event) {
	item.Title = p.Title
	item.Description = strings.TrimSpace(p.Description)
	item.ImageURL = strings.TrimSpace(p.ImageURL)
	item.Location = strings.TrimSpace(p.Location)
	item.StartDate = p.StartDate
	item.EndDate = p.EndDate
	item.SuggestedAmounts = append([]int64{}, p.SuggestedAmounts...)
	item.DonationEnabled = boolOr(p.DonationEnabled, true)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type DonationCardPayload struct {
	CategoryID   uint64 `json:"category_id" validate:"required,gt=0"`
	Label        string `json:"label" validate:"required,max=255"`
	Amount       int64  `json:"amount" validate:"gt=0"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *DonationCardPayload) Validate() error {
	p.Label = strings.TrimSpace(p.Label)
	return validateStruct(p)
}

func (p *DonationCardPayload) ApplyTo(item *entity.DonationCard) {
	item.CategoryID = p.CategoryID
	item.Label = p.Label
	item.Amount = p.Amount
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type EventDonationCardPayload struct {
	EventID      uint64 `json:"event_id" validate:"required,gt=0"`
	Label        string `json:"label" validate:"required,max=255"`
	Amount       int64  `json:"amount" validate:"gt=0"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *EventDonationCardPayload) Validate() error {
	p.Label = strings.TrimSpace(p.Label)
	return validateStruct(p)
}

func (p *EventDonationCardPayload) ApplyTo(item *entity.EventDonationCard) {
	item.EventID = p.EventID
	item.Label = p.Label
	item.Amount = p.Amount
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type BankAccountPayload struct {
	AccountName   string `json:"account_name" validate:"required,max=255"`
	AccountNumber string `json:"account_number" validate:"required,max=34"`
	BankName      string `json:"bank_name" validate:"required,max=255"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`
	Branch        string `json:"branch" validate:"max=255"`
	UPIID         string `json:"upi_id" validate:"max=255"`
	QRCodeURL     string `json:"qr_code_url" validate:"omitempty,url,max=1024"`
	IsActive      *bool  `json:"is_active"`
}

func (p *BankAccountPayload) normalize() {
	p.AccountName = strings.TrimSpace(p.AccountName)
	p.AccountNumber = strings.TrimSpace(p.AccountNumber)
	p.BankName = strings.TrimSpace(p.BankName)
	p.IFSC = strings.ToUpper(strings.TrimSpace(p.IFSC))
	p.Branch = strings.TrimSpace(p.Branch)
	p.UPIID = strings.TrimSpace(p.UPIID)
	p.QRCodeURL = strings.TrimSpace(p.QRCodeURL)
}

func (p *BankAccountPayload) account() entity.BankAccount {
	return entity.BankAccount{
		AccountName:   p.AccountName,
		AccountNumber: p.AccountNumber,
		BankName:      p.BankName,
		IFSC:          p.IFSC,
		Branch:        p.Branch,
		UPIID:         p.UPIID,
		QRCodeURL:     p.QRCodeURL,
	}
}

type BankDetailsPayload struct {
	BankAccountPayload
}

func (p *BankDetailsPayload) Validate() error {
	p.normalize()
	return validateStruct(p)
}

func (p *BankDetailsPayload) ApplyTo(item *entity.BankDetails) {
	item.BankAccount = p.account()
	item.IsActive = boolOr(p.IsActive, true)
}

type CategoryBankDetailsPayload struct {
	CategoryID uint64 `json:"category_id" validate:"required,gt=0"`
	BankAccountPayload
}

func (p *CategoryBankDetailsPayload) Validate() error {
	p.normalize()
	return validateStruct(p)
}

func (p *CategoryBankDetailsPayload) ApplyTo(item *entity.CategoryBankDetails) {
	item.CategoryID = p.CategoryID
	item.BankAccount = p.account()
	item.IsActive = boolOr(p.IsActive, true)
}

type EventBankDetailsPayload struct {
	EventID uint64 `json:"event_id" validate:"required,gt=0"`
	BankAccountPayload
}

func (p *EventBankDetailsPayload) Validate() error {
	p.normalize()
	return validateStruct(p)
}

func (p *EventBankDetailsPayload) ApplyTo(item *entity.EventBankDetails) {
	item.EventID = p.EventID
	item.BankAccount = p.account()
	item.IsActive = boolOr(p.IsActive, true)
}

type BannerPayload struct {
	Title        string `json:"title" validate:"required,max=255"`
	Subtitle     string `json:"subtitle" validate:"max=500"`
	ImageURL     string `json:"image_url" validate:"required,url,max=1024"`
	LinkURL      string `json:"link_url" validate:"max=1024"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *BannerPayload) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	return validateStruct(p)
}

func (p *BannerPayload) ApplyTo(item *entity.Banner) {
	item.Title = p.Title
	item.Subtitle = strings.TrimSpace(p.Subtitle)
	item.ImageURL = p.ImageURL
	item.LinkURL = strings.TrimSpace(p.LinkURL)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type GalleryImagePayload struct {
	Title        string `json:"title" validate:"max=255"`
	ImageURL     string `json:"image_url" validate:"required,url,max=1024"`
	Album        string `json:"album" validate:"max=255"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *GalleryImagePayload) Validate() error {
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	return validateStruct(p)
}

func (p *GalleryImagePayload) ApplyTo(item *entity.GalleryImage) {
	item.Title = strings.TrimSpace(p.Title)
	item.ImageURL = p.ImageURL
	item.Album = strings.TrimSpace(p.Album)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type VideoPayload struct {
	Title        string `json:"title" validate:"required,max=255"`
	VideoURL     string `json:"video_url" validate:"required,url,max=1024"`
	Description  string `json:"description" validate:"max=5000"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *VideoPayload) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	p.VideoURL = strings.TrimSpace(p.VideoURL)
	return validateStruct(p)
}

func (p *VideoPayload) ApplyTo(item *entity.Video) {
	item.Title = p.Title
	item.VideoURL = p.VideoURL
	item.Description = strings.TrimSpace(p.Description)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type QuotePayload struct {
	Text         string `json:"text" validate:"required,max=2000"`
	Author       string `json:"author" validate:"max=255"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *QuotePayload) Validate() error {
	p.Text = strings.TrimSpace(p.Text)
	return validateStruct(p)
}

func (p *QuotePayload) ApplyTo(item *entity.Quote) {
	item.Text = p.Text
	item.Author = strings.TrimSpace(p.Author)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type TestimonialPayload struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Message      string `json:"message" validate:"required,max=5000"`
	ImageURL     string `json:"image_url" validate:"omitempty,url,max=1024"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int32  `json:"display_order" validate:"gte=0"`
}

func (p *TestimonialPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Message = strings.TrimSpace(p.Message)
	return validateStruct(p)
}

func (p *TestimonialPayload) ApplyTo(item *entity.Testimonial) {
	item.Name = p.Name
	item.Message = p.Message
	item.ImageURL = strings.TrimSpace(p.ImageURL)
	item.IsActive = boolOr(p.IsActive, true)
	item.DisplayOrder = p.DisplayOrder
}

type BlogPostPayload struct {
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Slug        string     `json:"slug" validate:"omitempty,slug,max=255"`
	Excerpt     string     `json:"excerpt" validate:"max=1000"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    string     `json:"image_url" validate:"omitempty,url,max=1024"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

func (p *BlogPostPayload) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return validateStruct(p)
}

func (p *BlogPostPayload) ApplyTo(item *entity.BlogPost) {
	item.Title = p.Title
	item.Slug = p.Slug
	item.Excerpt = strings.TrimSpace(p.Excerpt)
	item.Content = p.Content
	item.ImageURL = strings.TrimSpace(p.ImageURL)
	item.Published = p.Published
	item.PublishedAt = p.PublishedAt
	if item.Published && item.PublishedAt == nil {
		now := time.Now().UTC()
		item.PublishedAt = &now
	}
}

type UserPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,phone,max=20"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

func (p *UserPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	if p.Role == "" {
		p.Role = entity.UserRoleUser
	}
	return validateStruct(p)
}

func (p *UserPayload) ApplyTo(item *entity.User) {
	item.Name = p.Name
	item.Email = p.Email
	item.Phone = p.Phone
	item.Role = p.Role
}

// PlainPassword is hashed by the user service; ApplyTo never copies it.
func (p *UserPayload) PlainPassword() string {
	return p.Password
}

type MarkMessageReadRequest struct {
	ID     uint64 `json:"-"`
	IsRead *bool  `json:"is_read"`
}

func (r *MarkMessageReadRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid id")
	}
	return nil
}

func (r *MarkMessageReadRequest) Read() bool {
	return boolOr(r.IsRead, true)
}
