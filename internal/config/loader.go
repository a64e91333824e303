package config

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var seasonRe = regexp.MustCompile(`^\d{4}-\d{4}$`)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOUTLINE_CONFIG is set, or the given path
//  3. env (prefix SCOUTLINE_)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("SCOUTLINE_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SCOUTLINE_SEASON, SCOUTLINE_OUTPUT_DIR, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SCOUTLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scoutline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if !seasonRe.MatchString(cfg.Season) {
		return nil, errors.New("season must look like 2023-2024")
	}
	if cfg.LeaguesFile == "" {
		return nil, errors.New("leagues_file must not be empty")
	}
	if cfg.ReferenceFile == "" {
		return nil, errors.New("reference_file must not be empty")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("output_dir must not be empty")
	}
	return &cfg, nil
}
