package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-donations/config"
)

const (
	DriverS3         = "s3"
	DriverCloudinary = "cloudinary"

	defaultMaxUploadBytes = int64(5 << 20)
	sniffLen              = 512
)

var (
	ErrNotConfigured   = errors.New("upload storage is not configured")
	ErrUnsupportedType = errors.New("only jpeg, png, gif and webp images are accepted")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
	ErrEmptyFile       = errors.New("file is empty")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Object is one validated image ready to be written to a backend.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

type objectWriter interface {
	Put(ctx context.Context, obj *Object) (string, error)
}

// ImageStore validates uploaded images and hands them to the configured backend.
type ImageStore struct {
	backend  objectWriter
	maxBytes int64
	now      func() time.Time
}

func New(ctx context.Context, cfg config.StorageConfig) (*ImageStore, error) {
	var (
		backend objectWriter
		err     error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverS3:
		backend, err = NewS3Uploader(ctx, cfg)
	case DriverCloudinary:
		backend, err = NewCloudinaryUploader(cfg)
	case "":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return newImageStore(backend, cfg.MaxUploadBytes), nil
}

func newImageStore(backend objectWriter, maxBytes int64) *ImageStore {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ImageStore{backend: backend, maxBytes: maxBytes, now: time.Now}
}

func (s *ImageStore) MaxBytes() int64 {
	return s.maxBytes
}

// PutImage sniffs the content type from the first bytes, ignoring what the client
// claimed, and stores the image under a random key. It returns the public URL.
func (s *ImageStore) PutImage(ctx context.Context, body io.Reader, size int64) (string, error) {
	if s.backend == nil {
		return "", ErrNotConfigured
	}
	if size > s.maxBytes {
		return "", ErrTooLarge
	}

	reader := bufio.NewReaderSize(io.LimitReader(body, s.maxBytes+1), sniffLen)
	head, err := reader.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if len(head) == 0 {
		return "", ErrEmptyFile
	}

	contentType, ext, err := DetectImageType(head)
	if err != nil {
		return "", err
	}

	counted := &countingReader{reader: reader, limit: s.maxBytes}
	obj := &Object{
		Key:         s.objectKey(ext),
		ContentType: contentType,
		Size:        size,
		Body:        counted,
	}

	url, err := s.backend.Put(ctx, obj)
	if counted.exceeded {
		return "", ErrTooLarge
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *ImageStore) objectKey(ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}

// DetectImageType maps sniffed content to one of the accepted image types.
func DetectImageType(head []byte) (string, string, error) {
	contentType := http.DetectContentType(head)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	return contentType, ext, nil
}

type countingReader struct {
	reader   io.Reader
	read     int64
	limit    int64
	exceeded bool
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read += int64(n)
	if r.read > r.limit {
		r.exceeded = true
		return n, ErrTooLarge
	}
	return n, err
}
