package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// SourcePlaceholder is the out-of-the-box source URL. Leaving it in place means
// "not configured" and makes the loader serve the embedded sample with a warning.
const SourcePlaceholder = "PASTE_YOUR_CSV_URL_HERE"

type Application struct {
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Source   Source   `koanf:"source"`
	Calendar Calendar `koanf:"calendar"`
	Columns  Columns  `koanf:"columns"`
	Styles   Styles   `koanf:"styles"`
	Snapshot Snapshot `koanf:"snapshot"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Source struct {
	URL string `koanf:"url"`
	// RefreshIntervalMs is the fixed period between background reloads.
	RefreshIntervalMs int `koanf:"refreshintervalms"`
	TimeoutMs         int `koanf:"timeoutms"`
}

type Calendar struct {
	// WeekStart is "monday" or "sunday".
	WeekStart string `koanf:"weekstart"`
}

// Columns holds the header aliases accepted for each logical CSV field.
// Matching is trimmed and case-insensitive.
type Columns struct {
	Date   []string `koanf:"date"`
	Event  []string `koanf:"event"`
	School []string `koanf:"school"`
	Notes  []string `koanf:"notes"`
}

// Styles maps event category labels to display style tokens.
type Styles struct {
	Categories map[string]string `koanf:"categories"`
	Fallback   string            `koanf:"fallback"`
}

type Snapshot struct {
	// Path of the sqlite snapshot cache. Empty disables the cache.
	Path string `koanf:"path"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: ":8181",
		Frontend: Frontend{
			Enabled: true,
			Dir:     "frontend",
		},
		Source: Source{
			URL:               SourcePlaceholder,
			RefreshIntervalMs: 300000,
			TimeoutMs:         15000,
		},
		Calendar: Calendar{
			WeekStart: "monday",
		},
		Columns: Columns{
			Date:   []string{"date", "day", "event date"},
			Event:  []string{"event", "event type", "type", "reason"},
			School: []string{"school", "school name", "campus", "district"},
			Notes:  []string{"notes", "note", "details", "description"},
		},
		Styles: Styles{
			Categories: map[string]string{
				"No School":     "closed",
				"Half Day":      "half",
				"Early Release": "half",
				"Holiday":       "holiday",
			},
			Fallback: "default",
		},
		Snapshot: Snapshot{
			Path: "schoolcal.db",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SCHOOLCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SCHOOLCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// SourceConfigured reports whether a real data source has been set.
func (a Application) SourceConfigured() bool {
	url := strings.TrimSpace(a.Source.URL)
	return url != "" && url != SourcePlaceholder
}
