package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAddr is the default bind address.
const DefaultAddr = ":8080"

// DefaultNameServiceURL is the cluster DNS name of the name provider.
const DefaultNameServiceURL = "http://gs-spring-boot-k8s"

// Config represents the greeting caller configuration file.
type Config struct {
	HTTP struct {
		Addr           string   `toml:"addr"`
		Domain         string   `toml:"domain"`
		DebugAddr      string   `toml:"debug-addr"`
		AllowedOrigins []string `toml:"allowed-origins"`
	} `toml:"http"`

	// Base URL of the name provider, resolved by cluster DNS.
	// Overridden by $NAME_SERVICE_URL.
	NameService struct {
		URL string `toml:"url"`
	} `toml:"name-service"`
}

// DefaultConfig returns a new instance of Config with defaults set.
func DefaultConfig() Config {
	var config Config
	config.HTTP.Addr = DefaultAddr
	config.NameService.URL = DefaultNameServiceURL
	return config
}

// LoadConfig reads the config file at path, if any, over the defaults and
// applies environment fallbacks.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		// Expand "~" to the user's home directory.
		configPath, err := expand(path)
		if err != nil {
			return config, err
		}

		if config, err = ReadConfigFile(configPath); os.IsNotExist(err) {
			return config, fmt.Errorf("config file not found: %s", path)
		} else if err != nil {
			return config, err
		}
	}

	if v := os.Getenv("NAME_SERVICE_URL"); v != "" {
		config.NameService.URL = v
	}
	return config, nil
}

// ReadConfigFile unmarshalls config from config file
func ReadConfigFile(filename string) (Config, error) {
	config := DefaultConfig()
	if buf, err := os.ReadFile(filename); err != nil {
		return config, err
	} else if err := toml.Unmarshal(buf, &config); err != nil {
		return config, err
	}
	return config, nil
}

// expand returns path using tilde expansion. This means that a file path that
// begins with the "~" will be expanded to prefix the user's home directory.
func expand(path string) (string, error) {
	// Ignore if path has no leading tilde.
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}

	// Fetch the current user to determine the home path.
	u, err := user.Current()
	if err != nil {
		return path, err
	} else if u.HomeDir == "" {
		return path, fmt.Errorf("home directory unset")
	}

	if path == "~" {
		return u.HomeDir, nil
	}
	return filepath.Join(u.HomeDir, strings.TrimPrefix(path, "~"+string(os.PathSeparator))), nil
}
