package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockledger/internal/apperror"
)

// ErrUnsupportedDSN is returned for connection strings with an unknown scheme.
var ErrUnsupportedDSN = errors.New("unsupported connection string, expected postgres://, mysql:// or sqlite://")

const pingTimeout = 5 * time.Second

// Session owns the handle to the document store. A Session is either fully
// connected or disconnected; a failed open never leaves a half-open handle.
// The zero value is a disconnected session.
type Session struct {
	mu         sync.RWMutex
	db         *gorm.DB
	registered map[reflect.Type]bool
}

// Open connects using connString. A blank string, an unknown scheme or any
// open/ping failure is logged and yields a disconnected session so the rest
// of the application keeps running without a database.
func Open(ctx context.Context, connString string) *Session {
	s := &Session{registered: make(map[reflect.Type]bool)}

	connString = strings.TrimSpace(connString)
	if connString == "" {
		log.Warn().Msg("no database connection string configured, database features are unavailable")
		return s
	}

	db, err := connect(ctx, connString)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed, running without database")
		return s
	}

	s.db = db
	log.Info().Str("dialect", db.Dialector.Name()).Msg("database connected")
	return s
}

// NewSession wraps an already open handle.
func NewSession(db *gorm.DB) *Session {
	return &Session{db: db, registered: make(map[reflect.Type]bool)}
}

// IsConnected reports whether a store handle is available.
func (s *Session) IsConnected() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

// RequireConnected returns apperror.ErrNoDatabaseConnection when disconnected.
func (s *Session) RequireConnected() error {
	if !s.IsConnected() {
		return apperror.ErrNoDatabaseConnection
	}
	return nil
}

// DB returns the handle, or nil when disconnected.
func (s *Session) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Register migrates the collections for models. Already registered types
// and a disconnected session are no-ops.
func (s *Session) Register(models ...interface{}) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if s.registered == nil {
		s.registered = make(map[reflect.Type]bool)
	}

	var pending []interface{}
	for _, m := range models {
		t := reflect.TypeOf(m)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if s.registered[t] {
			continue
		}
		pending = append(pending, m)
	}
	if len(pending) == 0 {
		return nil
	}

	if err := s.db.AutoMigrate(pending...); err != nil {
		return apperror.Store("register models", err)
	}
	for _, m := range pending {
		t := reflect.TypeOf(m)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		s.registered[t] = true
	}
	return nil
}

// Ping checks the live connection.
func (s *Session) Ping(ctx context.Context) error {
	db := s.DB()
	if db == nil {
		return apperror.ErrNoDatabaseConnection
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperror.Store("ping database", err)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return apperror.Store("ping database", sqlDB.PingContext(ctx))
}

// Close releases the handle. The session is disconnected afterwards.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	s.registered = make(map[reflect.Type]bool)
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TestConnection opens connString, pings it and closes it again.
func TestConnection(ctx context.Context, connString string) error {
	connString = strings.TrimSpace(connString)
	if connString == "" {
		return apperror.Validation("connection_string", "Connection string cannot be empty")
	}
	db, err := connect(ctx, connString)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func connect(ctx context.Context, connString string) (*gorm.DB, error) {
	dialector, err := dialectorFor(connString)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if dialector.Name() == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// dialectorFor picks the gorm driver from the connection string scheme.
func dialectorFor(connString string) (gorm.Dialector, error) {
	lower := strings.ToLower(connString)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return postgres.Open(connString), nil
	case strings.HasPrefix(lower, "mysql://"):
		return mysql.Open(connString[len("mysql://"):]), nil
	case strings.HasPrefix(lower, "sqlite://"):
		return sqlite.Open(connString[len("sqlite://"):]), nil
	case strings.HasPrefix(lower, "file:"):
		return sqlite.Open(connString), nil
	default:
		return nil, ErrUnsupportedDSN
	}
}
