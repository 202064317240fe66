package image

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrMissingTitle      = errors.New("title missing")
	ErrCorruptImage      = errors.New("image data could not be decoded")
	ErrDuplicateKey      = errors.New("storage key already exists")
	ErrImageNotFound     = errors.New("image not found")
	ErrInvalidSort       = errors.New("invalid sort mode")
	ErrInvalidPage       = errors.New("invalid page number")
)
