// Package config resolves CLI settings from defaults, an optional .env
// file, the environment, and explicit overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvBackend  = "PROFILES_BACKEND"
	EnvBaseURL  = "PROFILES_BASE_URL"
	EnvRedisURL = "PROFILES_REDIS_URL"
	EnvTimeout  = "PROFILES_TIMEOUT"
	EnvOutput   = "PROFILES_OUTPUT"
	EnvDebug    = "PROFILES_DEBUG"
	EnvEnvFile  = "PROFILES_ENV_FILE"

	defaultEnvFile = ".env"
)

// Backend names accepted by --backend / PROFILES_BACKEND.
const (
	BackendStub  = "stub"
	BackendFake  = "fake"
	BackendRedis = "redis"
)

const (
	DefaultBaseURL  = "http://api.sample.com"
	DefaultRedisURL = "redis://localhost:6379/0"
	DefaultTimeout  = 5 * time.Second
)

// Backends lists the accepted backend names.
var Backends = []string{BackendStub, BackendFake, BackendRedis}

// ErrInvalidBackend is returned for an unrecognized backend name.
var ErrInvalidBackend = errors.New("invalid backend")

// SettingError reports a setting value that cannot be used.
type SettingError struct {
	Setting string
	Err     error
}

func (e *SettingError) Error() string {
	return e.Err.Error()
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

// Settings holds resolved CLI settings.
type Settings struct {
	Backend  string        `json:"backend"`
	BaseURL  string        `json:"base_url"`
	RedisURL string        `json:"redis_url"`
	Timeout  time.Duration `json:"timeout"`
	Output   string        `json:"output"`
	Debug    bool          `json:"debug"`
}

// Overrides carries explicitly set flag values. Nil fields are unset.
type Overrides struct {
	Backend  *string
	BaseURL  *string
	RedisURL *string
	Timeout  *time.Duration
	Output   *string
	Debug    *bool
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Backend:  BackendStub,
		BaseURL:  DefaultBaseURL,
		RedisURL: DefaultRedisURL,
		Timeout:  DefaultTimeout,
		Output:   "text",
	}
}

// LoadEnvFile loads variables from PROFILES_ENV_FILE, or ./.env when that
// is unset. Variables already present in the environment win. A missing
// default file is not an error; a missing explicit file is.
func LoadEnvFile() error {
	path := strings.TrimSpace(os.Getenv(EnvEnvFile))
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to parse env file %q: %w", path, err)
	}
	return nil
}

// Resolve builds Settings from defaults, the environment, and o.
func Resolve(o Overrides) (Settings, error) {
	s := Defaults()

	if v := envValue(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := envValue(EnvBaseURL); v != "" {
		s.BaseURL = v
	}
	if v := envValue(EnvRedisURL); v != "" {
		s.RedisURL = v
	}
	if v := envValue(EnvOutput); v != "" {
		s.Output = v
	}
	if v := envValue(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, &SettingError{Setting: "timeout", Err: fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)}
		}
		s.Timeout = d
	}
	if v := envValue(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, &SettingError{Setting: "debug", Err: fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)}
		}
		s.Debug = b
	}

	if o.Backend != nil {
		s.Backend = *o.Backend
	}
	if o.BaseURL != nil {
		s.BaseURL = *o.BaseURL
	}
	if o.RedisURL != nil {
		s.RedisURL = *o.RedisURL
	}
	if o.Timeout != nil {
		s.Timeout = *o.Timeout
	}
	if o.Output != nil {
		s.Output = *o.Output
	}
	if o.Debug != nil {
		s.Debug = *o.Debug
	}

	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	s.BaseURL = strings.TrimSuffix(strings.TrimSpace(s.BaseURL), "/")
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every setting is usable.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendStub, BackendFake, BackendRedis:
	default:
		return &SettingError{Setting: "backend", Err: fmt.Errorf("%w %q: must be one of %s", ErrInvalidBackend, s.Backend, strings.Join(Backends, ", "))}
	}
	if s.Timeout < 0 {
		return &SettingError{Setting: "timeout", Err: fmt.Errorf("timeout must be >= 0, got %s", s.Timeout)}
	}
	if s.Backend == BackendRedis && strings.TrimSpace(s.RedisURL) == "" {
		return &SettingError{Setting: "redis-url", Err: fmt.Errorf("redis URL is required for the redis backend (set %s or pass --redis-url)", EnvRedisURL)}
	}
	return nil
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
