// Package config loads the daemon's user-editable settings file, grounded
// on tphakala-birdnet-go's direct github.com/spf13/viper dependency and
// dougsko-js8d's nested-struct config layout (SPEC_FULL.md §10 "Config").
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings is the full set of user-editable daemon settings, written to
// and read from <data-dir>/config.yaml.
type Settings struct {
	Audio struct {
		OutputDevice      string `mapstructure:"output_device"`
		PreviousThreshold int    `mapstructure:"previous_threshold"`
		DefaultVolume     int    `mapstructure:"default_volume"`
	} `mapstructure:"audio"`

	Library struct {
		Paths []string `mapstructure:"paths"`
	} `mapstructure:"library"`

	Server struct {
		Enabled     bool   `mapstructure:"enabled"`
		BindAddress string `mapstructure:"bind_address"`
		Port        int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Watch struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"watch"`

	Logging struct {
		Level string `mapstructure:"level"` // debug, info, warn, error
	} `mapstructure:"logging"`
}

// Default returns the settings used when no config file exists yet.
func Default() Settings {
	var s Settings
	s.Audio.OutputDevice = "Default Device"
	s.Audio.PreviousThreshold = 3
	s.Audio.DefaultVolume = 50
	s.Server.Enabled = true
	s.Server.BindAddress = "127.0.0.1"
	s.Server.Port = 7878
	s.Watch.Enabled = true
	s.Logging.Level = "info"
	return s
}

// Load reads <dataDir>/config.yaml via viper, creating it with defaults on
// first run (mirrors tphakala-birdnet-go's initViper: missing file is not
// fatal, a default is created instead).
func Load(dataDir string) (Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)

	settings := Default()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := writeDefault(dataDir, settings); werr != nil {
				return settings, fmt.Errorf("config: write default: %w", werr)
			}
			return settings, nil
		}
		return settings, fmt.Errorf("config: read %s/config.yaml: %w", dataDir, err)
	}

	if err := v.Unmarshal(&settings); err != nil {
		return settings, fmt.Errorf("config: unmarshal: %w", err)
	}
	return settings, nil
}

func writeDefault(dataDir string, settings Settings) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("audio", settings.Audio)
	v.Set("library", settings.Library)
	v.Set("server", settings.Server)
	v.Set("watch", settings.Watch)
	v.Set("logging", settings.Logging)

	path := filepath.Join(dataDir, "config.yaml")
	return v.WriteConfigAs(path)
}
