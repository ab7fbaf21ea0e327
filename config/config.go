// Package config loads the settings shared by the chatpad server and client.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings represents every configurable value.
type Settings struct {
	Server ServerSettings `mapstructure:"server"`
	Client ClientSettings `mapstructure:"client"`
	Editor EditorSettings `mapstructure:"editor"`
	Log    LogSettings    `mapstructure:"log"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

type ClientSettings struct {
	// Server is the network address of the chatpad server.
	Server string `mapstructure:"server"`
	Secure bool   `mapstructure:"secure"`
	Login  bool   `mapstructure:"login"`
}

type EditorSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
	History  int           `mapstructure:"history"`

	// Marks switches formatting from delimiter text to tree marks.
	Marks bool `mapstructure:"marks"`
}

type LogSettings struct {
	Debug bool `mapstructure:"debug"`
}

// EnvPrefix prefixes environment overrides, e.g. CHATPAD_SERVER_ADDR.
const EnvPrefix = "CHATPAD"

var defaults = map[string]interface{}{
	"server.addr":     ":8080",
	"client.server":   "localhost:8080",
	"client.secure":   false,
	"client.login":    false,
	"editor.debounce": 500 * time.Millisecond,
	"editor.history":  100,
	"editor.marks":    false,
	"log.debug":       false,
}

// Load reads the settings. With an empty path it looks for chatpad.yaml in
// the working directory and in $HOME/.chatpad, and a missing file is not an
// error. An explicit path must exist. Environment variables override the
// file.
func Load(path string) (Settings, error) {
	v := withDefaults()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chatpad")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", ".chatpad"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return decode(v)
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	s, err := decode(withDefaults())
	if err != nil {
		panic(err)
	}
	return s
}

func withDefaults() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}
