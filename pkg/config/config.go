package config

import (
	"campsite/pkg/client"
	"campsite/pkg/env"
	"campsite/pkg/logger"
	"net/netip"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port        string
	MetricsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRequests int
	RateLimitWindow   time.Duration
	TrustedProxies    []string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Booking  BookingPolicy
	Location *time.Location

	Log    *logger.Logger
	Client *client.Client
}

var (
	mongoScheme      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentials = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
)

// Load reads the service configuration and exits the process when it is invalid.
func Load(serviceName string) *Config {
	log := logger.New(logger.Config{
		Level:     env.String(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	cfg, err := LoadWithLogger(log)
	if err != nil {
		log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// LoadWithLogger builds a validated Config from the environment and CONFIG_FILE.
func LoadWithLogger(log *logger.Logger) (*Config, error) {
	policy, err := loadBookingPolicy(env.String(EnvConfigFile, ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI:          env.String(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: env.String(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  env.Duration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:        env.String(EnvPort, DefaultPort),
		MetricsPath: env.String(EnvMetricsPath, DefaultMetricsPath),

		RedisAddr:     env.String(EnvRedisAddr, ""),
		RedisPassword: env.String(EnvRedisPassword, ""),
		RedisDB:       env.Int(EnvRedisDB, DefaultRedisDB),

		RateLimitRequests: env.Int(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   env.Duration(EnvRateLimitWindow, DefaultRateLimitWindow),
		TrustedProxies:    env.List(EnvTrustedProxies, DefaultTrustedProxies),

		RequestTimeout: env.Duration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: env.Duration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: env.Int(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     env.Duration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    env.Duration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     env.Duration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: env.Duration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Booking: policy,

		Log:    log,
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects to Redis when REDIS_ADDR is set. Failure leaves the client unset.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Info("Redis not configured, idempotency keys kept in memory")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

// Validate reports every problem at once and resolves Location on success.
func (cfg *Config) Validate() error {
	var problems env.Problems

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems.Addf("Port must be between 1 and 65535, got: %s", cfg.Port)
	}

	switch {
	case cfg.MongoURI == "":
		problems.Addf("MongoURI cannot be empty")
	case !mongoScheme.MatchString(cfg.MongoURI):
		problems.Addf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems.Addf("MongoDatabaseName cannot be empty")
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	} {
		if d.value <= 0 {
			problems.Addf("%s must be positive, got: %s", d.name, d.value)
		}
	}

	if cfg.RateLimitRequests <= 0 {
		problems.Addf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests)
	}
	if cfg.MaxRequestSize <= 0 {
		problems.Addf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize)
	}
	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			problems.Addf("TrustedProxies entries must be IPs or CIDR ranges, got: %s", proxy)
		}
	}
	if cfg.RedisDB < 0 {
		problems.Addf("RedisDB cannot be negative, got: %d", cfg.RedisDB)
	}

	cfg.Booking.validate(&problems)

	loc, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		problems.Addf("TimeZone must be a valid IANA zone, got: %s", cfg.Booking.TimeZone)
	} else {
		cfg.Location = loc
	}

	return problems.Err("Configuration validation failed")
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"metrics_path", cfg.MetricsPath,
		"redis_addr", cfg.RedisAddr,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"trusted_proxies", cfg.TrustedProxies,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"max_days_in_advance", cfg.Booking.MaxDaysInAdvance,
		"min_days_in_advance", cfg.Booking.MinDaysInAdvance,
		"max_duration", cfg.Booking.MaxDuration,
		"min_interval_per_account", cfg.Booking.MinIntervalPerAccount,
		"time_zone", cfg.Booking.TimeZone,
	)
}

func validProxy(entry string) bool {
	if _, err := netip.ParsePrefix(entry); err == nil {
		return true
	}
	_, err := netip.ParseAddr(entry)
	return err == nil
}

func redactMongoURI(uri string) string {
	return mongoCredentials.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
