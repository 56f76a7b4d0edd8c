// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variables that override single config keys,
	// e.g. OLTECH_DB_PASSWORD for DB.Password.
	EnvPrefix = "OLTECH"

	// EnvJSON holds a JSON document merged over the file based configuration.
	EnvJSON = "OLTECH_CONFIG_JSON"

	defaultShutDownTime     = 5
	defaultJoinCodeAttempts = 5
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	// a .env file next to main.toml may provide secrets
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)
	t.SetIndentTables(true)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without
// and fills in defaults for optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	case "":
		c.DB.GormEngine = EngineSQLite
	default:
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	switch c.Storage.Driver {
	case StorageMinio:
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return errors.Wrap(ErrStorageIncomplete, invalidErrMessage)
		}
	case StorageMemory:
	case "":
		c.Storage.Driver = StorageMemory
	default:
		return errors.Wrapf(ErrUnknownStorageDriver, "%s: %q", invalidErrMessage, c.Storage.Driver)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = DefaultSessionExpiry
	}

	if c.Storage.URLExpiry <= 0 {
		c.Storage.URLExpiry = DefaultURLExpiry
	}

	if c.Storage.URLExpiry > MaxURLExpiry {
		return errors.Wrapf(ErrURLExpiryTooLong, "%s: %s", invalidErrMessage, c.Storage.URLExpiry)
	}

	if c.Workspace.JoinCodeAttempts <= 0 {
		c.Workspace.JoinCodeAttempts = defaultJoinCodeAttempts
	}

	if c.Workspace.PurgeInterval <= 0 {
		c.Workspace.PurgeInterval = DefaultPurgeInterval
	}

	if c.Workspace.MaxUploadSize == 0 {
		c.Workspace.MaxUploadSize = DefaultMaxUploadSize
	}

	return nil
}
