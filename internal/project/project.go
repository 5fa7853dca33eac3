// Package project loads and writes wayfind.json, the file the CLI reads
// its per-project defaults from. Explicit command-line flags always win
// over the file; the file wins over built-in defaults.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/wayfind-dev/wayfind/internal/diag"
)

const (
	// FileName is the name of the project configuration file.
	FileName = "wayfind.json"

	// DefaultManifest is where an exported route manifest lives.
	DefaultManifest = "routes.json"

	// DefaultAddr is the default shell server listen address.
	DefaultAddr = ":8080"

	// DefaultPublishKey is the default S3 object key for published
	// manifests.
	DefaultPublishKey = "wayfind/routes.json"
)

// Config is the complete wayfind.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Manifest is the path to the exported route manifest.
	Manifest string `json:"manifest,omitempty"`

	// Serve configures the shell server.
	Serve ServeConfig `json:"serve,omitempty"`

	// Publish configures manifest publication.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// ServeConfig configures the shell server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// HTML is the path to a custom shell document. Empty uses the
	// built-in document.
	HTML string `json:"html,omitempty"`

	// NoBridge disables the history bridge endpoint.
	NoBridge bool `json:"noBridge,omitempty"`

	// MaxRedirectHops bounds server-side redirect chains.
	MaxRedirectHops int `json:"maxRedirectHops,omitempty"`
}

// PublishConfig configures manifest publication to S3.
type PublishConfig struct {
	// Bucket is the target S3 bucket.
	Bucket string `json:"bucket,omitempty"`

	// Key is the object key within the bucket.
	Key string `json:"key,omitempty"`

	// Region overrides the ambient AWS region.
	Region string `json:"region,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Serve: ServeConfig{
			Addr: DefaultAddr,
		},
		Publish: PublishConfig{
			Key: DefaultPublishKey,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// wayfind.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, diag.New("W040").
				WithSubject("no " + FileName + " in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, diag.New("W041").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, diag.New("W041").
			WithSubject(path + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return diag.Newf(diag.CategoryUsage, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Publish.Key == "" {
		c.Publish.Key = DefaultPublishKey
	}
}
