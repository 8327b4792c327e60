package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"timetable-export/internal/export"
	"timetable-export/internal/metrics"
	"timetable-export/internal/store"
)

type Config struct {
	HTTP    HTTPConfig          `json:"http"`
	Uploads UploadsConfig       `json:"uploads"`
	Solver  SolverConfig        `json:"solver"`
	Store   store.Config        `json:"store"`
	Layout  export.LayoutConfig `json:"layout"`
	Metrics metrics.Config      `json:"metrics"`
	Logging LoggingConfig       `json:"logging"`
}

type HTTPConfig struct {
	Addr string `json:"addr"`
	// RespondJSON selects the deployment variant where POST /generate
	// answers with a JSON status object instead of the archive bytes.
	RespondJSON bool `json:"respond_json"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

type UploadsConfig struct {
	Dir string `json:"dir"`
}

func (c *UploadsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "static/uploads"
	}
}

type SolverConfig struct {
	// BaseURL points at the external solver service. When empty,
	// AssignmentsFile selects the file-backed source instead.
	BaseURL         string `json:"base_url"`
	AssignmentsFile string `json:"assignments_file"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
}

func (c *SolverConfig) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 120
	}
}

func (c *SolverConfig) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("solver: timeout_seconds must not be negative")
	}
	return nil
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Load reads the configuration file (yaml or json), applies TTX_
// environment overrides (TTX_HTTP__ADDR and friends), then defaults
// and validation. An empty path skips the file and uses env plus
// defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("TTX_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ttx_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	cfg.HTTP.SetDefaults()
	cfg.Uploads.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Layout.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()

	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
