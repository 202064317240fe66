package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/PaulOlteanu/36T/internal/pkg/identifier"
	"github.com/PaulOlteanu/36T/internal/pkg/imaging"
	"github.com/PaulOlteanu/36T/internal/pkg/storage"
	"github.com/PaulOlteanu/36T/internal/pkg/validator"
)

// Options are the immutable knobs the service takes at construction.
type Options struct {
	// KeyLength is the random part of a storage key, before the extension.
	KeyLength int
	// PageSize is the fixed number of feed entries per page.
	PageSize int
	// AllowedExtensions is the upload allow-list, lowercase without dots.
	AllowedExtensions []string
}

// Service implements the image core: ingestion, ranking, votes and feed
// assembly over a repository and a storage backend.
type Service struct {
	repo      Repository
	store     storage.Storage
	processor *imaging.Processor
	keyLength int
	pageSize  int
	allowed   map[string]bool
}

// NewService creates the image service.
func NewService(repo Repository, store storage.Storage, processor *imaging.Processor, opts Options) *Service {
	allowed := make(map[string]bool, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &Service{
		repo:      repo,
		store:     store,
		processor: processor,
		keyLength: opts.KeyLength,
		pageSize:  opts.PageSize,
		allowed:   allowed,
	}
}

type ingestInput struct {
	Filename string `json:"filename" validate:"required"`
	Title    string `json:"title" validate:"required"`
}

// Ingest validates, recompresses and persists one upload. On success
// exactly one stored object and one row exist; on any failure, neither
// does. The storage write always commits before the metadata insert, and an
// insert failure triggers a compensating delete of the object.
func (s *Service) Ingest(ctx context.Context, data []byte, filename, title string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedFormat
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !s.allowed[ext] {
		return nil, ErrUnsupportedFormat
	}

	if errs := validator.Validate(&ingestInput{Filename: filename, Title: title}); errs != nil {
		if _, ok := errs["title"]; ok {
			return nil, ErrMissingTitle
		}
		return nil, ErrUnsupportedFormat
	}

	normalized, err := s.processor.Normalize(data, ext)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			return nil, ErrCorruptImage
		}
		return nil, err
	}

	// A colliding random key is rare but possible; the storage backend and
	// the unique constraint both catch it, and we draw a fresh name once
	// before giving up.
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		name, err := identifier.Generate(s.keyLength)
		if err != nil {
			return nil, err
		}
		// The stored suffix keeps the declared extension; only the encoder
		// saw "jpg" normalized to "jpeg".
		key := name + "." + ext

		if err := s.store.Put(ctx, key, bytes.NewReader(normalized.Data), normalized.ContentType); err != nil {
			if errors.Is(err, storage.ErrExists) {
				// The name belongs to an earlier upload whose object was
				// left untouched. Nothing to clean up, just draw again.
				lastErr = ErrDuplicateKey
				continue
			}
			return nil, err
		}

		img := &Image{Title: title, Key: key, MimeType: normalized.ContentType}
		lastErr = s.repo.Create(ctx, img)
		if lastErr == nil {
			return img, nil
		}

		// The row never landed, so the object must go too. If even the
		// cleanup fails, log the orphan for out-of-band removal instead of
		// masking the original error.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("Orphaned storage object after failed insert")
		}

		if !errors.Is(lastErr, ErrDuplicateKey) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// List returns one page of images in the requested order. page is 1-based;
// values below 1 behave as page 1. The sort mode is checked before any data
// access.
func (s *Service) List(ctx context.Context, sortMode string, page int) ([]*Image, error) {
	sort, err := ParseSort(sortMode)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	return s.repo.List(ctx, sort, offset, s.pageSize)
}

// Feed is List composed with storage URL resolution.
func (s *Service) Feed(ctx context.Context, sortMode string, page int) ([]*ImageResponse, error) {
	images, err := s.List(ctx, sortMode, page)
	if err != nil {
		return nil, err
	}
	return AssembleFeed(images, s.store.URL), nil
}

// Get returns a single image by id with its URL resolved.
func (s *Service) Get(ctx context.Context, id int64) (*ImageResponse, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ResponseFromEntity(img, s.store.URL(img.Key)), nil
}

// Upvote adds one vote to an image and returns the new count.
func (s *Service) Upvote(ctx context.Context, id int64) (int64, error) {
	return s.repo.IncrementVotes(ctx, id)
}

// Open streams the stored bytes for a key together with the recorded
// content type.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	img, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, "", err
	}

	rc, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The row exists but its object is gone; that breaks the core
			// invariant and must never pass silently.
			log.Error().Str("key", key).Int64("id", img.ID).Msg("Metadata row references missing storage object")
		}
		return nil, "", err
	}
	return rc, img.MimeType, nil
}
