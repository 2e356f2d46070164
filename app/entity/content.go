package entity

import "time"

type ContactMessage struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type Banner struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	ImageURL     string    `json:"image_url"`
	LinkURL      string    `json:"link_url"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GalleryImage struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	Album        string    `json:"album"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Video struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	VideoURL     string    `json:"video_url"`
	Description  string    `json:"description"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Quote struct {
	ID           uint64    `json:"id"`
	Text         string    `json:"text"`
	Author       string    `json:"author"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Testimonial struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Message      string    `json:"message"`
	ImageURL     string    `json:"image_url"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BlogPost struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"image_url"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
