package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rubiojr/medialog/pkg/config"
	"github.com/rubiojr/medialog/pkg/dispatch"
	"github.com/rubiojr/medialog/pkg/media"
)

// setDefaultsFromConfig loads the configuration and installs the configured
// destinations as the dispatcher's defaults. Setup errors propagate so a
// bad path or table fails the command rather than degrading silently.
func setDefaultsFromConfig(configPath string, d *dispatch.Dispatcher) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	destinations, err := cfg.BuildMedia(d.Factory())
	if err != nil {
		return fmt.Errorf("building destinations: %w", err)
	}

	d.SetDefaults(destinations...)
	return nil
}

// overrideMedia builds any destinations requested on the command line,
// bypassing the configuration file.
func overrideMedia(d *dispatch.Dispatcher, filePath, lockedPath, storePath, storeTable string) ([]media.Medium, error) {
	var out []media.Medium
	if filePath != "" {
		m, err := d.Factory().File(filePath)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if lockedPath != "" {
		m, err := d.Factory().LockedFile(lockedPath)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if storePath != "" {
		m, err := d.Factory().Store(storePath, storeTable)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// parseContext turns repeated "key=value" flags into a context map. Values
// that parse as JSON keep their type; anything else stays a string, so
// `--context retries=3` gives a number and `--context user=joe` a string.
func parseContext(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	ctx := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid context pair %q, expected key=value", pair)
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			ctx[key] = parsed
		} else {
			ctx[key] = value
		}
	}
	return ctx, nil
}
