package loader

import (
	"errors"
	"fmt"

	"github.com/costwatch/costwatch/internal/config"
)

// Hooks receives cache observations from the assembled loader.
type Hooks struct {
	OnLookup LookupFunc
	OnError  func(error)
}

// New assembles the configured source with its timeout and cache layers:
// LRU in front of Redis in front of the source. The returned close function
// releases database and Redis handles.
func New(cfg *config.Config, hooks Hooks) (Loader, func() error, error) {
	var (
		closers []func() error
		source  Loader
	)

	switch cfg.Source.Type {
	case config.SourceMemory:
		source = NewMemoryLoader()
	case config.SourceCSV:
		source = NewCSVLoader(cfg.Source.CSVPath)
	case config.SourcePostgres:
		db, err := OpenPostgres(cfg.Source.DSN)
		if err != nil {
			return nil, nil, err
		}
		sqlLoader, err := NewSQLLoader(db, cfg.Source.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		closers = append(closers, sqlLoader.Close)
		source = sqlLoader
	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", cfg.Source.Type)
	}

	l := WithTimeout(source, cfg.Source.Timeout)

	if cfg.Cache.RedisURL != "" {
		rc := NewRedisCache(NewRedisClient(cfg.Cache.RedisURL), l, cfg.Cache.RedisTTL, cfg.Cache.RedisPrefix)
		rc.OnLookup = hooks.OnLookup
		rc.OnError = hooks.OnError
		closers = append(closers, rc.Close)
		l = rc
	}

	if cfg.Cache.LRUSize > 0 {
		cl := NewCachedLoader(l, cfg.Cache.LRUSize, cfg.Cache.LRUTTL)
		cl.OnLookup = hooks.OnLookup
		l = cl
	}

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return l, closeAll, nil
}
