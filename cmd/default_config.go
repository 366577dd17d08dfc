package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edsim/edsim/sim/department"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version     string            `yaml:"version"`
	Params      department.Params `yaml:"params"`
	Experiments []Experiment      `yaml:"experiments"`
}

// Experiment is a named set of parameter overrides producing one output file.
type Experiment struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Params      yaml.Node `yaml:"params"` // partial Params, applied over Config.Params
}

// Resolve returns base with the experiment's overrides applied.
func (e Experiment) Resolve(base department.Params) (department.Params, error) {
	if e.Params.Kind == 0 {
		return base.Clone(), nil
	}
	// re-encode so the overrides go through the strict decoder too
	data, err := yaml.Marshal(&e.Params)
	if err != nil {
		return department.Params{}, fmt.Errorf("experiment %s: %w", e.Name, err)
	}
	p, err := overlayParams(base, data)
	if err != nil {
		return department.Params{}, fmt.Errorf("experiment %s: %w", e.Name, err)
	}
	return p, nil
}

// Find returns the experiment with the given name.
func (c Config) Find(name string) (Experiment, bool) {
	for _, e := range c.Experiments {
		if e.Name == name {
			return e, true
		}
	}
	return Experiment{}, false
}

// strictDecode parses YAML rejecting unknown fields (typos must cause errors).
// An empty document leaves out untouched.
func strictDecode(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// overlayParams decodes a partial parameter document over a copy of base.
// Fields absent from data keep their base values.
func overlayParams(base department.Params, data []byte) (department.Params, error) {
	p := base.Clone()
	if err := strictDecode(data, &p); err != nil {
		return department.Params{}, fmt.Errorf("parsing parameters: %w", err)
	}
	return p, nil
}

// loadDefaultsConfig parses defaults.yaml into a Config struct. Parameters
// omitted from the file fall back to department.DefaultParams.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read defaults file: %w", err)
	}
	cfg := Config{Params: department.DefaultParams()}
	if err := strictDecode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse defaults YAML %s: %w", path, err)
	}
	seen := make(map[string]bool, len(cfg.Experiments))
	for _, e := range cfg.Experiments {
		if e.Name == "" {
			return Config{}, fmt.Errorf("%s: experiment without a name", path)
		}
		if seen[e.Name] {
			return Config{}, fmt.Errorf("%s: duplicate experiment %q", path, e.Name)
		}
		seen[e.Name] = true
	}
	return cfg, nil
}

// loadParamsFile overlays a parameter YAML file on base.
func loadParamsFile(path string, base department.Params) (department.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return department.Params{}, fmt.Errorf("failed to read params file: %w", err)
	}
	p, err := overlayParams(base, data)
	if err != nil {
		return department.Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// writeDefaults prints the built-in parameters in the --params file format.
func writeDefaults(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(department.DefaultParams()); err != nil {
		return err
	}
	return encoder.Close()
}
