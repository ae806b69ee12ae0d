// Package designtype holds the sentinel errors shared by the design data packages.
package designtype

import (
	"errors"
	"fmt"
)

// Error categories. Every concrete sentinel below wraps exactly one of these,
// so callers can match either the category or the specific failure.
var (
	// ErrFormat is returned when the binary layout of an index or table is violated.
	ErrFormat = errors.New("designpatch: format error")

	// ErrLookup is returned when a required hash, row or backup does not exist.
	ErrLookup = errors.New("designpatch: not found")

	// ErrCapacity is returned when a payload does not fit its slot.
	ErrCapacity = errors.New("designpatch: capacity exceeded")

	// ErrIntegrity is returned when stored content does not match its digest.
	ErrIntegrity = errors.New("designpatch: integrity check failed")
)

// Format errors.
var (
	// ErrTruncatedInput is returned when the index ends before a declared field.
	ErrTruncatedInput = fmt.Errorf("%w: truncated input", ErrFormat)

	// ErrTruncatedRow is returned when a table row ends before a declared field.
	ErrTruncatedRow = fmt.Errorf("%w: truncated row", ErrFormat)

	// ErrMalformedVarint is returned when a varint is too long, overflows or is cut short.
	ErrMalformedVarint = fmt.Errorf("%w: malformed varint", ErrFormat)

	// ErrFieldTooLong is returned when a string or list does not fit its length prefix.
	ErrFieldTooLong = fmt.Errorf("%w: field too long", ErrFormat)

	// ErrSlotOutOfRange is returned when an entry's byte range lies outside its data file.
	ErrSlotOutOfRange = fmt.Errorf("%w: slot out of range", ErrFormat)
)

// Lookup errors.
var (
	// ErrHashNotFound is returned when no index entry carries the requested hash.
	ErrHashNotFound = fmt.Errorf("%w: hash", ErrLookup)

	// ErrRowNotFound is returned when no table row matches an area and kind.
	ErrRowNotFound = fmt.Errorf("%w: row", ErrLookup)

	// ErrBackupNotFound is returned when no backup exists for a slot.
	ErrBackupNotFound = fmt.Errorf("%w: backup", ErrLookup)
)

// ErrPayloadTooLarge is returned when an encoded payload is larger than its slot.
var ErrPayloadTooLarge = fmt.Errorf("%w: payload larger than slot", ErrCapacity)

// ErrDigestMismatch is returned when slot or backup content does not match its recorded digest.
var ErrDigestMismatch = fmt.Errorf("%w: digest mismatch", ErrIntegrity)
