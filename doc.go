// Package designpatch rewrites the AllowedLanguage table stored in a game's
// design data so the client accepts a chosen text and voice language.
//
// Design data consists of an index file and a set of hash-named data files:
//   - Index: a mixed-endian table mapping 32-bit name hashes to byte ranges
//     (slots) inside data files, see [designindex]
//   - Data files: concatenated tables; the AllowedLanguage table is a list of
//     sparse rows, see [excel]
//
// A [Patcher] resolves the table's slot through the index, decodes it,
// applies a set of [Instruction] values, re-encodes it and writes it back into
// the same slot. The slot never grows: a smaller table is zero padded and a
// larger one is rejected before anything is written.
//
// # Quick Start
//
//	p, err := designpatch.Open("/games/StarRail")
//	if err != nil {
//	    return err
//	}
//	res, err := p.Patch(ctx, designpatch.DefaultInstructions("en", "jp"))
//
// # Backups
//
// Pass a [backup.Store] with [WithBackup] to keep the original slot contents.
// [Patcher.Restore] writes them back, provided the slot still holds what the
// last patch wrote:
//
//	store, _ := backup.NewStore("/games/StarRail/.designpatch")
//	p, err := designpatch.Open("/games/StarRail", designpatch.WithBackup(store))
//	...
//	_, err = p.Restore(ctx)
package designpatch
