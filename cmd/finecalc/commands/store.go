package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jask/finecalc/internal/config"
	"github.com/jask/finecalc/internal/store"
	"github.com/jask/finecalc/internal/store/cache"
	"github.com/jask/finecalc/internal/store/csvfile"
	"github.com/jask/finecalc/internal/store/memory"
	"github.com/jask/finecalc/internal/store/sqlite"
)

// openStore builds the configured driver behind the read cache. The closer
// releases the driver.
func openStore(ctx context.Context, c config.StoreConfig) (store.Store, io.Closer, error) {
	var (
		next   store.Store
		closer io.Closer = io.NopCloser(nil)
	)
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", "sqlite":
		s, err := sqlite.Open(ctx, c.Path)
		if err != nil {
			return nil, nil, err
		}
		next, closer = s, s
	case "csv":
		s, err := csvfile.New(c.CSVDir, c.Encoding)
		if err != nil {
			return nil, nil, err
		}
		next = s
	case "memory":
		next = memory.New()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", c.Driver)
	}
	return cache.New(next, c.CacheSize, c.CacheTTL), closer, nil
}

// openSessionStore is openStore for the interactive session. A backend that
// fails to open is logged and replaced by store.Unavailable, so the session
// still starts and reports the failure as a warning.
func openSessionStore(ctx context.Context, c config.StoreConfig, logger *slog.Logger) (store.Store, io.Closer) {
	st, closer, err := openStore(ctx, c)
	if err == nil {
		return st, closer
	}
	ce := store.Wrap("open", "", err).(*store.ConnectionError)
	logger.Warn("store unavailable", "driver", c.Driver, "error", err)
	return store.Unavailable{Err: ce}, io.NopCloser(nil)
}
