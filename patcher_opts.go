package designpatch

import (
	"log/slog"

	"github.com/meigma/designpatch/backup"
)

// Option configures a Patcher.
type Option func(*Patcher)

// WithLogger sets the logger for patch operations.
// By default, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Patcher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTargetHash sets the index name hash of the table to patch.
// Defaults to AllowedLanguageHash.
func WithTargetHash(hash int32) Option {
	return func(p *Patcher) {
		p.targetHash = hash
	}
}

// WithBackup keeps the original slot contents in store before each patch and
// enables Restore.
func WithBackup(store *backup.Store) Option {
	return func(p *Patcher) {
		p.backup = store
	}
}
