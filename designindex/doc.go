// Package designindex parses the design data index that maps table hashes to
// byte ranges inside hash-named data files.
//
// The index begins with a small header followed by one record per data file.
// Each file record carries the raw 16-byte file hash used to name the data
// file on disk and the list of entries it contains. Field byte order is not
// uniform: the header mixes little- and big-endian fields, and every file and
// entry field is big-endian. Parse decodes each field with its own order.
//
// The index is read-only input; this package never writes it back.
package designindex
