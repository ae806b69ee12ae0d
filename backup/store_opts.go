package backup

import (
	"log/slog"
	"os"
	"time"
)

const defaultDirPerm = 0o700

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for backup operations.
// By default, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDirPerm sets the permissions used when creating the backup directory.
func WithDirPerm(mode os.FileMode) Option {
	return func(s *Store) {
		s.dirPerm = mode
	}
}

// WithClock sets the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
