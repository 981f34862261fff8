package app

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"simplemdm/internal/api"
	"simplemdm/internal/secret"
)

// Config holds runtime wiring options. The API key is deliberately not part
// of it; keys come from --key, the secret store or the prompt.
type Config struct {
	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`
	SecretStore struct {
		Backend    string `mapstructure:"backend"`    // keyring, file or memory
		Dir        string `mapstructure:"dir"`        // file backend directory
		Passphrase string `mapstructure:"passphrase"` // file backend passphrase
	} `mapstructure:"secret_store"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// configDir is $XDG_CONFIG_HOME/simplemdm (or the platform equivalent).
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "simplemdm"), nil
}

func defaults() map[string]any {
	d := map[string]any{
		"api.base_url":            api.DefaultBaseURL,
		"api.timeout":             "30s",
		"secret_store.backend":    secret.BackendKeyring,
		"secret_store.dir":        "",
		"secret_store.passphrase": "",
		"log.level":               "warn",
	}
	if dir, err := configDir(); err == nil {
		d["secret_store.dir"] = dir
	}
	return d
}

// LoadConfig reads simplemdm.yaml and SIMPLEMDM_* environment variables on
// top of the defaults. An explicit path must exist; the user config dir
// may hold none. The working directory is never searched: whoever controls
// a config file picks the host the API key is sent to.
func LoadConfig(path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("simplemdm")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("simplemdm")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if c.API.Timeout < 0 {
		return c, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout)
	}
	if err := checkBaseURL(c.API.BaseURL); err != nil {
		return c, err
	}
	return c, nil
}

// checkBaseURL requires https, except for loopback hosts used in development.
func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	switch {
	case u.Host == "":
		return fmt.Errorf("api.base_url %q has no host", raw)
	case u.Scheme == "https":
		return nil
	case u.Scheme == "http" && isLoopback(u.Hostname()):
		return nil
	default:
		return fmt.Errorf("api.base_url %q must use https", raw)
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
