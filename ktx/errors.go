package ktx

import "errors"

var (
	// ErrOutOfRange is returned when a blob index falls outside the bundle hierarchy.
	ErrOutOfRange = errors.New("libktx: blob index out of range")

	// ErrEmptyBlob is returned by Blob for a slot that was never allocated or set.
	ErrEmptyBlob = errors.New("libktx: blob is empty")

	// ErrInsufficientBuffer is returned by Serialize when the destination is too small.
	ErrInsufficientBuffer = errors.New("libktx: insufficient buffer")

	// ErrMalformedInput is returned by Parse for bytes that are not a valid KTX file.
	ErrMalformedInput = errors.New("libktx: malformed input")

	// ErrInvalidShape is returned by NewBundle for a zero or overflowing hierarchy.
	ErrInvalidShape = errors.New("libktx: invalid hierarchy shape")

	// ErrInvalidKey is returned for empty metadata keys or keys containing a NUL byte.
	ErrInvalidKey = errors.New("libktx: invalid metadata key")

	// ErrBlobTooLarge is returned for blobs whose size does not fit the 32-bit imageSize field.
	ErrBlobTooLarge = errors.New("libktx: blob too large")
)
