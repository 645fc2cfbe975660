package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"posauth/internal/domain/entity"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

// Registry backend selection.
const (
	RegistryBackendPostgres = "postgres"
	RegistryBackendMemory   = "memory"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Registry selects the credential registry backend: "postgres" for
	// shared multi-terminal deployments, "memory" for embedded single hosts.
	Registry struct {
		Backend string `json:"backend" yaml:"backend"`
	} `json:"registry" yaml:"registry"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Terminals holds per-terminal lock policies; TerminalDefaults applies to
	// terminals without an explicit entry.
	Terminals        []TerminalConfig `json:"terminals" yaml:"terminals"`
	TerminalDefaults TerminalConfig   `json:"terminalDefaults" yaml:"terminalDefaults"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// TerminalConfig defines one terminal's RFID and lock configuration.
type TerminalConfig struct {
	ID               string        `json:"id" yaml:"id"`
	Enabled          bool          `json:"enabled" yaml:"enabled"`
	AutoLock         bool          `json:"autoLock" yaml:"autoLock"`
	LockTimeout      time.Duration `json:"lockTimeout" yaml:"lockTimeout"`
	AlwaysRequirePin bool          `json:"alwaysRequirePin" yaml:"alwaysRequirePin"`
	RfidOnly         bool          `json:"rfidOnly" yaml:"rfidOnly"`
}

// Policy converts the config entry to the domain policy snapshot.
func (tc TerminalConfig) Policy() entity.TerminalPolicy {
	return entity.TerminalPolicy{
		Enabled:          tc.Enabled,
		AutoLock:         tc.AutoLock,
		LockTimeout:      tc.LockTimeout,
		AlwaysRequirePIN: tc.AlwaysRequirePin,
		RFIDOnly:         tc.RfidOnly,
	}
}

// LoadWithEnv loads .yaml files through koanf, with environment variables
// layered on top (e.g. HTTP_PORT overrides http.port).
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to a dotted lowercase path: HTTP_PORT -> http.port
			return strings.ReplaceAll(strings.ToLower(k), "_", "."), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills unset fields with safe defaults. The terminal defaults
// mirror the original POS configuration: auto-lock on, five minutes.
func applyDefaults(cfg *Config) {
	if cfg.Registry.Backend == "" {
		cfg.Registry.Backend = RegistryBackendPostgres
	}

	defaults := &cfg.TerminalDefaults
	if defaults.LockTimeout == 0 {
		defaults.AutoLock = true
		defaults.LockTimeout = entity.DefaultLockTimeout
	}
}
