package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/medicare/portal/internal/core/domain"
)

// Session backends.
const (
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	TimeZone string `env:"TIME_ZONE, default=UTC"`

	Session  SessionConfig
	Gateway  GatewayConfig
	Services ServiceURLs
	Mongo    MongoConfig
	Redis    RedisConfig
}

type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND,       default=redis"`
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,           default=12h"`
	CookieName   string        `env:"SESSION_COOKIE,        default=medicare_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	DraftTTL     time.Duration `env:"DRAFT_TTL,             default=30m"`
	EventWorkers int           `env:"SESSION_EVENT_WORKERS, default=4"`
}

type GatewayConfig struct {
	Timeout time.Duration `env:"GATEWAY_TIMEOUT, default=15s"`
}

// ServiceURLs holds the base URL of every backend domain.
type ServiceURLs struct {
	Identity       string `env:"IDENTITY_SERVICE_URL,        default=http://localhost:8000/api/user"`
	Patient        string `env:"PATIENT_SERVICE_URL,         default=http://localhost:8001/api"`
	Doctor         string `env:"DOCTOR_SERVICE_URL,          default=http://localhost:8002/api"`
	Pharmacist     string `env:"PHARMACIST_SERVICE_URL,      default=http://localhost:8003/api"`
	Appointments   string `env:"APPOINTMENTS_SERVICE_URL,    default=http://localhost:8004/api"`
	Nurse          string `env:"NURSE_SERVICE_URL,           default=http://localhost:8005/api"`
	Lab            string `env:"LAB_SERVICE_URL,             default=http://localhost:8006/api"`
	MedicalRecords string `env:"MEDICAL_RECORDS_SERVICE_URL, default=http://localhost:8007/api"`
	Prescription   string `env:"PRESCRIPTION_SERVICE_URL,    default=http://localhost:8008/api"`
	Administrator  string `env:"ADMINISTRATOR_SERVICE_URL,   default=http://localhost:8009/api"`
	Chatbot        string `env:"CHATBOT_SERVICE_URL,         default=http://localhost:8000/api/chatbot"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medicare_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// ByBackend maps every backend domain to its base URL.
func (s ServiceURLs) ByBackend() map[domain.Backend]string {
	return map[domain.Backend]string{
		domain.BackendIdentity:       s.Identity,
		domain.BackendPatient:        s.Patient,
		domain.BackendDoctor:         s.Doctor,
		domain.BackendPharmacist:     s.Pharmacist,
		domain.BackendAppointments:   s.Appointments,
		domain.BackendNurse:          s.Nurse,
		domain.BackendLab:            s.Lab,
		domain.BackendMedicalRecords: s.MedicalRecords,
		domain.BackendPrescription:   s.Prescription,
		domain.BackendAdministrator:  s.Administrator,
		domain.BackendChatbot:        s.Chatbot,
	}
}

// IsDev reports whether the portal runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location resolves TimeZone, the zone booking dates and slots are read in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate rejects settings the portal cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Session.Backend {
	case BackendRedis, BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be one of redis, mongo, memory; got %q", c.Session.Backend))
	}
	if c.Session.Secret == "" && !c.IsDev() {
		errs = append(errs, errors.New("SESSION_SECRET is required outside development"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" && cfg.IsDev() {
		cfg.Session.Secret = "development-only-secret"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
