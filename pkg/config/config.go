// Package config loads applet options from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifold/remote-uci-applet/pkg/remote"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DirName  = "remote-uci-applet"
	FileName = "config.yaml"
)

// DefaultPath returns the per-user config file location, e.g.
// ~/.config/remote-uci-applet/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DirName, FileName), nil
}

// Load reads path from fs on top of remote.DefaultOptions. A missing file is
// only an error when required is set.
func Load(fs afero.Fs, path string, required bool) (remote.Options, error) {
	opts := remote.DefaultOptions()

	ok, err := afero.Exists(fs, path)
	if err != nil {
		return opts, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !ok {
		if required {
			return opts, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
		return opts, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return opts, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return opts, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return opts, nil
}
