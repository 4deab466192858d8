package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/gophtodo/internal/flagx"
	"github.com/dmitrijs2005/gophtodo/internal/timex"
)

// FileConfig is the DTO for JSON and TOML config files. Pointer fields tell
// a missing key apart from a zero value, so only keys present in the file
// override earlier sources.
type FileConfig struct {
	DBPath        *string         `json:"db_path"`
	ToastDuration *timex.Duration `json:"toast_duration"`
	LogLevel      *string         `json:"log_level"`
	SeedDemo      *bool           `json:"seed_demo"`
}

type tomlConfig struct {
	DBPath        string         `toml:"db_path"`
	ToastDuration timex.Duration `toml:"toast_duration"`
	LogLevel      string         `toml:"log_level"`
	SeedDemo      bool           `toml:"seed_demo"`
}

// decodeTOML uses the decoder metadata to keep only the keys that are set.
func decodeTOML(path string) (FileConfig, error) {
	var tc tomlConfig
	md, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return FileConfig{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown keys: %v", undecoded)
	}

	var fc FileConfig
	if md.IsDefined("db_path") {
		fc.DBPath = &tc.DBPath
	}
	if md.IsDefined("toast_duration") {
		fc.ToastDuration = &tc.ToastDuration
	}
	if md.IsDefined("log_level") {
		fc.LogLevel = &tc.LogLevel
	}
	if md.IsDefined("seed_demo") {
		fc.SeedDemo = &tc.SeedDemo
	}
	return fc, nil
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	var fc FileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var err error
		if fc, err = decodeTOML(path); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &fc); err != nil {
			return err
		}
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.ToastDuration != nil {
		cfg.ToastDuration = fc.ToastDuration.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.SeedDemo != nil {
		cfg.SeedDemo = *fc.SeedDemo
	}
}
