// Package backup keeps the original bytes of patched slots so a patch can be
// undone.
//
// Each slot is stored as two files named after the data file hash and the
// slot offset: a zstd-compressed copy of the original bytes (.slot.zst) and a
// JSON manifest (.json) recording the slot geometry and the digests of the
// original and patched contents. Both are written atomically.
//
// Only the first backup of a slot is kept. Saving again updates the patched
// digest but never replaces the stored original, so repeated patches can
// always be rolled back to the unmodified game data.
package backup
