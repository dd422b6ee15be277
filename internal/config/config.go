// Package config loads the optional YAML settings file for nullvadcheck-go.
// Command-line flags take precedence over file values; the file exists so
// recurring runs do not need a wall of flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/August26/nullvadcheck-go/internal/model"
)

// Settings mirrors model.Config for YAML persistence.
type Settings struct {
	// ClientPath is the external VPN client binary.
	ClientPath string `yaml:"client_path"`
	// InputFile is the newline-delimited account list.
	InputFile string `yaml:"input_file"`
	// ValidOutputFile collects accounts that validated, append-only.
	ValidOutputFile string `yaml:"valid_output_file"`
	// DeviceLimitFile collects accounts rejected for device limit, append-only.
	DeviceLimitFile string `yaml:"device_limit_file"`
	// DelaySeconds is the pause before each account check.
	DelaySeconds int `yaml:"delay_seconds"`
	// CooldownSeconds is the pause after each completed check.
	CooldownSeconds int `yaml:"cooldown_seconds"`

	Proxy ProxySettings `yaml:"proxy"`

	// Preflight probes proxy reachability before starting a batch.
	Preflight bool `yaml:"preflight"`
}

// ProxySettings holds the proxy part of the settings file.
type ProxySettings struct {
	// Address is domain:port[:user[:pass]].
	Address string `yaml:"address"`
	// Kind is http, https, socks4 or socks5.
	Kind string `yaml:"kind"`
	// Enabled toggles proxying without discarding the address.
	Enabled bool `yaml:"enabled"`
}

// DefaultSettings returns the defaults matching the historical file layout
// of the checker.
func DefaultSettings() Settings {
	return Settings{
		ClientPath:      "mullvad",
		InputFile:       "nullvad_in.txt",
		ValidOutputFile: "nullvad_working.txt",
		DeviceLimitFile: "nullvad_max_devices.txt",
		DelaySeconds:    2,
		CooldownSeconds: 1,
		Proxy: ProxySettings{
			Kind: "socks5",
		},
		Preflight: true,
	}
}

// Load reads the settings file at path. A missing file is not an error:
// the defaults are returned so a bare invocation still works.
func Load(path string) (Settings, error) {
	s := DefaultSettings()

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true) // reject unknown fields
	if err := dec.Decode(&s); err != nil {
		// An empty file decodes to io.EOF; treat it as "all defaults".
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}

	if err := s.validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes the settings to path, creating the file if needed.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Settings) validate() error {
	if s.ClientPath == "" {
		return fmt.Errorf("client_path must not be empty")
	}
	if s.DelaySeconds < 0 || s.CooldownSeconds < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if s.Proxy.Enabled && s.Proxy.Address != "" {
		// Fail fast on a malformed proxy before any command runs.
		if _, err := parseProxyKind(s.Proxy.Kind); err != nil {
			return err
		}
	}
	return nil
}

func parseProxyKind(kind string) (model.ProxyKind, error) {
	switch kind {
	case "http":
		return model.ProxyHTTP, nil
	case "https":
		return model.ProxyHTTPS, nil
	case "socks4":
		return model.ProxySOCKS4, nil
	case "socks5":
		return model.ProxySOCKS5, nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrUnsupportedProxyKind, kind)
	}
}

// Config converts file settings into the runtime configuration.
func (s Settings) Config() model.Config {
	return model.Config{
		ClientPath:      s.ClientPath,
		InputFile:       s.InputFile,
		ValidOutputFile: s.ValidOutputFile,
		DeviceLimitFile: s.DeviceLimitFile,
		DelaySeconds:    s.DelaySeconds,
		CooldownSeconds: s.CooldownSeconds,
		ProxyString:     s.Proxy.Address,
		ProxyKind:       s.Proxy.Kind,
		UseProxy:        s.Proxy.Enabled,
		Preflight:       s.Preflight,
	}
}
