// Package excel decodes and encodes the sparse row layout used by the
// AllowedLanguage design table.
//
// A table is a version byte, a varint row count and then one record per row.
// Each record starts with a presence bitmask; only the fields whose bit is set
// follow, in bit order:
//
//	bit 0  area              u8 length + bytes
//	bit 1  row type          u8 (absent = text, 1 = voice)
//	bit 2  language list     varint count + strings
//	bit 3  default language  u8 length + bytes
//
// Strings are arbitrary byte sequences; they are not validated as UTF-8.
package excel
