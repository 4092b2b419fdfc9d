package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chapter-fund-ledger/internal/infrastructure/logger"
)

// Options tunes the gorm session and the connection pool.
type Options struct {
	// LogLevel is one of silent, error, warn, info.
	LogLevel      string
	SlowThreshold time.Duration
	MaxOpenConns  int
	MaxIdleConns  int
	Log           *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = 30
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = 10
	}
	if o.SlowThreshold == 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	return o
}

func OpenGorm(dsn string, opts Options) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), opts)
}

// OpenGormWithDialector opens gorm on dial, sizes the pool and pings once.
// Driver errors are translated so duplicate keys surface as
// gorm.ErrDuplicatedKey.
func OpenGormWithDialector(dial gorm.Dialector, opts Options) (*gorm.DB, error) {
	opts = opts.withDefaults()
	log := opts.Log.WithComponent(logger.ComponentStorage)
	cfg := &gorm.Config{
		Logger: gormlogger.New(gormWriter{log}, gormlogger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  gormLevel(opts.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError:       true,
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("gorm: connected")
	return db, nil
}

func gormLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// gormWriter feeds gorm's printf-style logger into slog.
type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
