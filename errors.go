package linebatch

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the batch and scene packages.
var (
	// ErrInvalidHandle is returned when a handle is out of range,
	// never allocated, or already deleted.
	ErrInvalidHandle = errors.New("linebatch: invalid or deleted handle")

	// ErrBatchDisposed is returned when a batch is used after Dispose,
	// or after a buffer growth failure invalidated it.
	ErrBatchDisposed = errors.New("linebatch: batch disposed or invalidated")

	// ErrEmptySchema is returned when a schema declares no attributes.
	ErrEmptySchema = errors.New("linebatch: schema has no attributes")

	// ErrUnknownLayout is returned when activating a layout the scene
	// does not own.
	ErrUnknownLayout = errors.New("linebatch: unknown layout")
)

// SchemaMismatchError reports a geometry payload that does not match the
// batch's declared attribute schema. This is a programming error in the
// caller, not a recoverable runtime condition.
type SchemaMismatchError struct {
	// Attribute is the offending attribute name, if one is known.
	Attribute string

	// Reason describes the mismatch.
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("linebatch: schema mismatch: %s: %s", e.Attribute, e.Reason)
	}
	return "linebatch: schema mismatch: " + e.Reason
}

// CapacityError reports an update or growth that exceeds a reserved or
// configured capacity. For an oversized in-place update the caller must
// delete and re-add with a larger reservation; for a growth-limit
// violation the batch is invalidated.
type CapacityError struct {
	// What names the exhausted dimension ("vertex", "index").
	What string

	// Needed is the required element count.
	Needed int

	// Limit is the reserved or maximum element count.
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("linebatch: %s capacity exceeded: need %d, have %d", e.What, e.Needed, e.Limit)
}
