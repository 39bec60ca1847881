// Package database stores the history of blacklist generation runs in
// SQLite (via modernc.org/sqlite, which needs no cgo).
//
// Each run is one row holding its settings, counts, per-link results and
// the final word list, so that successive runs over the same link file can
// be listed and compared.
package database
