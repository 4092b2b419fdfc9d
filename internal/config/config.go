package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	RequestTimeout time.Duration

	MySQLHost      string
	MySQLPort      string
	MySQLDB        string
	MySQLUser      string
	MySQLPass      string
	MigrateOnStart bool
	DBLogLevel     string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	IdempTTLSecs    int
	SummaryTTLSecs  int
	JWTSecret       string
	JWTIssuer       string
	AMQPURL         string
	AMQPExchange    string
	LogLevel        string
	LogJSON         bool
	ShutdownTimeout time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

// Load reads the environment. Variables from the given dotenv files (".env"
// when none are named) fill in only what the environment leaves unset; a
// missing file is not an error.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		AppPort:        getenv("APP_PORT", "8080"),
		RequestTimeout: getduration("REQUEST_TIMEOUT", 10*time.Second),

		MySQLHost:      getenv("MYSQL_HOST", "mysql"),
		MySQLPort:      getenv("MYSQL_PORT", "3306"),
		MySQLDB:        getenv("MYSQL_DB", "chapter_ledger"),
		MySQLUser:      getenv("MYSQL_USER", "ledger"),
		MySQLPass:      getenv("MYSQL_PASS", "ledger"),
		MigrateOnStart: getbool("MIGRATE_ON_START", true),
		DBLogLevel:     getenv("DB_LOG_LEVEL", "warn"),

		RedisAddr:       getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getint("REDIS_DB", 0),
		IdempTTLSecs:    getint("IDEMPOTENCY_TTL_SECONDS", 300),
		SummaryTTLSecs:  getint("SUMMARY_CACHE_TTL_SECONDS", 60),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       os.Getenv("JWT_ISSUER"),
		AMQPURL:         os.Getenv("AMQP_URL"),
		AMQPExchange:    getenv("AMQP_EXCHANGE", "ledger.events"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogJSON:         getbool("LOG_JSON", false),
		ShutdownTimeout: getduration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		errs = append(errs, errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)"))
	}
	if c.MySQLPort != "" {
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			errs = append(errs, fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err))
		}
	}
	if c.AppPort == "" {
		errs = append(errs, errors.New("missing APP_PORT"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("missing REDIS_ADDR"))
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.IdempTTLSecs <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL_SECONDS must be positive"))
	}
	if c.SummaryTTLSecs <= 0 {
		errs = append(errs, errors.New("SUMMARY_CACHE_TTL_SECONDS must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.AMQPURL != "" && !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
		errs = append(errs, fmt.Errorf("invalid AMQP_URL scheme %q", c.AMQPURL))
	}
	return errors.Join(errs...)
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements for migrations; parseTime for DATETIME; clientFoundRows so
	// an UPDATE that matches but changes nothing still counts its row
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&loc=UTC&clientFoundRows=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) SummaryCacheTTL() time.Duration {
	return time.Duration(c.SummaryTTLSecs) * time.Second
}
