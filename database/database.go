package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/storefront-labs/catalog/config"
	"github.com/storefront-labs/catalog/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnavailable is returned when the store cannot be reached, even after a
// reconnect attempt.
var ErrUnavailable = errors.New("database unavailable")

// Handle hands out a usable *gorm.DB bound to the given context.
type Handle interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// OpenFunc dials a fresh connection pool.
type OpenFunc func() (*gorm.DB, error)

// Conn is the live Handle. It hands out the pool without a round trip until a
// statement fails with a connection error; the next use then pings and, if
// the connection is lost, dials once more before giving up.
type Conn struct {
	mu      sync.Mutex
	db      *gorm.DB
	suspect bool
	open    OpenFunc
	log     *zap.Logger
}

// Open dials the database described by cfg.
func Open(cfg config.Database, log *zap.Logger) (*Conn, error) {
	if log == nil {
		log = zap.NewNop()
	}
	open := func() (*gorm.DB, error) { return connect(cfg, log) }
	db, err := open()
	if err != nil {
		return nil, err
	}
	return NewConn(db, open, log), nil
}

// OpenLazy is like Open but tolerates an unreachable database: the returned
// Conn dials again on first use.
func OpenLazy(cfg config.Database, log *zap.Logger) *Conn {
	if log == nil {
		log = zap.NewNop()
	}
	open := func() (*gorm.DB, error) { return connect(cfg, log) }
	db, err := open()
	if err != nil {
		log.Warn("database not reachable at startup, will retry on use", zap.Error(err))
	}
	return NewConn(db, open, log)
}

// NewConn wraps an existing pool. open may be nil, in which case a lost
// connection is reported without a reconnect attempt.
func NewConn(db *gorm.DB, open OpenFunc, log *zap.Logger) *Conn {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Conn{db: db, open: open, log: log.Named("database")}
	c.watch(db)
	return c
}

const watchCallback = "storefront:connection_watch"

// watch flags the pool as suspect whenever one of its statements fails with a
// connection error.
func (c *Conn) watch(db *gorm.DB) {
	if db == nil {
		return
	}
	flag := func(tx *gorm.DB) {
		if IsConnectionError(tx.Error) {
			c.markSuspect(tx.Config)
		}
	}
	cb := db.Callback()
	errs := []error{
		cb.Query().After("gorm:query").Register(watchCallback, flag),
		cb.Row().After("gorm:row").Register(watchCallback, flag),
		cb.Raw().After("gorm:raw").Register(watchCallback, flag),
		cb.Create().After("gorm:create").Register(watchCallback, flag),
		cb.Update().After("gorm:update").Register(watchCallback, flag),
		cb.Delete().After("gorm:delete").Register(watchCallback, flag),
	}
	if err := errors.Join(errs...); err != nil {
		c.log.Warn("connection watch not installed", zap.Error(err))
	}
}

func (c *Conn) markSuspect(cfg *gorm.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Failures from a pool that has already been replaced are stale.
	if c.db != nil && c.db.Config == cfg && !c.suspect {
		c.suspect = true
		c.log.Warn("connection error reported, pool will be checked on next use")
	}
}

func connect(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// DB returns the pool bound to ctx. The pool is only pinged when it is
// missing or a previous statement reported a connection error; in that case
// DB reconnects at most once.
func (c *Conn) DB(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	current, suspect := c.db, c.suspect
	c.mu.Unlock()

	if current != nil && !suspect {
		return current.WithContext(ctx), nil
	}
	return c.verify(ctx, current)
}

// Check pings the pool and reconnects once if it is gone.
func (c *Conn) Check(ctx context.Context) error {
	c.mu.Lock()
	current := c.db
	c.mu.Unlock()

	_, err := c.verify(ctx, current)
	return err
}

func (c *Conn) verify(ctx context.Context, current *gorm.DB) (*gorm.DB, error) {
	pingErr := ping(ctx, current)
	if pingErr == nil {
		c.mu.Lock()
		if c.db == current {
			c.suspect = false
		}
		c.mu.Unlock()
		return current.WithContext(ctx), nil
	}
	c.log.Warn("database connection lost, reconnecting", zap.Error(pingErr))

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have swapped the pool while we were pinging.
	if c.db != current {
		return c.db.WithContext(ctx), nil
	}
	if c.open == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, pingErr)
	}

	fresh, err := c.open()
	if err == nil {
		err = ping(ctx, fresh)
	}
	if err != nil {
		c.log.Error("database reconnect failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if current != nil {
		if old, closeErr := current.DB(); closeErr == nil {
			_ = old.Close()
		}
	}
	c.watch(fresh)
	c.db = fresh
	c.suspect = false
	c.log.Info("database reconnected")

	return fresh.WithContext(ctx), nil
}

// Ping reports whether the current pool is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ping(ctx, c.db)
}

// Close releases the pool.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("no connection")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type static struct {
	db *gorm.DB
}

// Static returns a Handle that always hands out db. It is used to bind
// repositories to a transaction.
func Static(db *gorm.DB) Handle {
	return static{db: db}
}

func (s static) DB(ctx context.Context) (*gorm.DB, error) {
	return s.db.WithContext(ctx), nil
}
