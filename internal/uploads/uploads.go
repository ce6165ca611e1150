// Package uploads validates product and landing media and hands it to a
// storage backend (S3 or local disk).
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"storefront/internal/models"
)

const (
	maxImageSize = 5 << 20
	maxVideoSize = 50 << 20
)

var (
	ErrMissingExtension = errors.New("file extension is required")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrTooLarge         = errors.New("file too large")
)

type kind struct {
	folder  string
	maxSize int64
	mimes   []string
}

var (
	imageKind = kind{folder: "images", maxSize: maxImageSize, mimes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"}}
	videoKind = kind{folder: "videos", maxSize: maxVideoSize, mimes: []string{"video/mp4", "video/webm"}}
)

var kindsByExtension = map[string]kind{
	".jpg":  imageKind,
	".jpeg": imageKind,
	".png":  imageKind,
	".webp": imageKind,
	".gif":  imageKind,
	".mp4":  videoKind,
	".webm": videoKind,
}

// Storage persists an object under key and returns the URL clients use to
// fetch it.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// Save checks the extension, size and sniffed content of file before storing
// it under a fresh random key.
func (s *Service) Save(ctx context.Context, file *multipart.FileHeader) (Result, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return Result{}, ErrMissingExtension
	}
	k, ok := kindsByExtension[extension]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, extension)
	}
	if file.Size > k.maxSize {
		return Result{}, fmt.Errorf("%w (max %dMB)", ErrTooLarge, k.maxSize>>20)
	}

	in, err := file.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open upload: %w", err)
	}
	defer in.Close()

	detected, err := mimetype.DetectReader(in)
	if err != nil {
		return Result{}, fmt.Errorf("sniff upload: %w", err)
	}
	if !matchesAny(detected, k.mimes) {
		return Result{}, fmt.Errorf("%w: content is %s", ErrUnsupportedType, detected.String())
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("rewind upload: %w", err)
	}

	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	key := k.folder + "/" + models.NewID() + extension
	url, err := s.storage.Put(ctx, key, contentType, in, file.Size)
	if err != nil {
		log.Printf("[UPLOAD] [ERROR] store %s failed: %v", key, err)
		return Result{}, err
	}
	log.Printf("[UPLOAD] [INFO] stored %s (%s, %d bytes)", key, contentType, file.Size)

	return Result{URL: url, Key: key, ContentType: contentType}, nil
}

func matchesAny(detected *mimetype.MIME, mimes []string) bool {
	for _, m := range mimes {
		if detected.Is(m) {
			return true
		}
	}
	return false
}
