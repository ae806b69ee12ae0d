// Package slot reads and rewrites the fixed byte range that an index entry
// reserves inside a data file.
//
// A slot is never resized. Write refuses payloads larger than the slot before
// touching the file, and zero-fills whatever a smaller payload leaves unused,
// so bytes outside [offset, offset+size) are never modified and the index
// that points at the slot stays valid.
package slot
