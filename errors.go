package designpatch

import (
	"errors"

	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/gamedir"
)

// Error categories re-exported from designtype.
var (
	// ErrFormat is returned when the binary layout of an index or table is violated.
	ErrFormat = designtype.ErrFormat

	// ErrLookup is returned when a required hash, row or backup does not exist.
	ErrLookup = designtype.ErrLookup

	// ErrCapacity is returned when a payload does not fit its slot.
	ErrCapacity = designtype.ErrCapacity

	// ErrIntegrity is returned when stored content does not match its digest.
	ErrIntegrity = designtype.ErrIntegrity
)

// Errors re-exported from designtype.
var (
	// ErrTruncatedInput is returned when the index ends before a declared field.
	ErrTruncatedInput = designtype.ErrTruncatedInput

	// ErrTruncatedRow is returned when a table row ends before a declared field.
	ErrTruncatedRow = designtype.ErrTruncatedRow

	// ErrMalformedVarint is returned when a count varint is too long, overflows or is cut short.
	ErrMalformedVarint = designtype.ErrMalformedVarint

	// ErrFieldTooLong is returned when a string or list does not fit its length prefix.
	ErrFieldTooLong = designtype.ErrFieldTooLong

	// ErrSlotOutOfRange is returned when an entry's byte range lies outside its data file.
	ErrSlotOutOfRange = designtype.ErrSlotOutOfRange

	// ErrHashNotFound is returned when the index has no entry for the target hash.
	ErrHashNotFound = designtype.ErrHashNotFound

	// ErrRowNotFound is returned when no table row matches an instruction.
	ErrRowNotFound = designtype.ErrRowNotFound

	// ErrBackupNotFound is returned when no backup exists for the target slot.
	ErrBackupNotFound = designtype.ErrBackupNotFound

	// ErrPayloadTooLarge is returned when the re-encoded table is larger than its slot.
	ErrPayloadTooLarge = designtype.ErrPayloadTooLarge

	// ErrDigestMismatch is returned when slot or backup content does not match its recorded digest.
	ErrDigestMismatch = designtype.ErrDigestMismatch
)

// ErrGameNotFound is returned when a directory is not a game root.
var ErrGameNotFound = gamedir.ErrGameNotFound

var (
	// ErrInvalidLanguage is returned for a language code outside ValidLanguages.
	ErrInvalidLanguage = errors.New("designpatch: invalid language")

	// ErrInvalidLanguageFlag is returned when a language flag is not of the form 0xx,1yy.
	ErrInvalidLanguageFlag = errors.New("designpatch: invalid language flag")

	// ErrNoBackupStore is returned by Restore when the patcher has no backup store.
	ErrNoBackupStore = errors.New("designpatch: no backup store configured")
)
