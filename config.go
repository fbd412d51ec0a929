package fsxa

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maidi29/fsxa-api/caasclient"
	"github.com/maidi29/fsxa-api/ident"
)

// Config represents an fsxa.yaml configuration file. It carries everything
// needed to reach a CaaS tenant and shape reference resolution.
type Config struct {
	// Endpoint
	BaseURL     string `yaml:"baseUrl"`
	APIKey      string `yaml:"apikey"`
	Project     string `yaml:"project"`
	ContentMode string `yaml:"contentMode,omitempty"` // "preview" or "release"

	// Mapping
	Locale            string `yaml:"locale"`
	MaxReferenceDepth *int   `yaml:"maxReferenceDepth,omitempty"`

	// Remote projects, keyed by the name references use.
	Remotes map[string]RemoteProjectConfig `yaml:"remotes,omitempty"`

	// Optional Redis response cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// RemoteProjectConfig describes one remote project: its store address and
// the locale its content is served in.
type RemoteProjectConfig struct {
	Project string `yaml:"project"`
	Locale  string `yaml:"locale,omitempty"`
	APIKey  string `yaml:"apikey,omitempty"`
}

// CacheConfig configures the transport-level Redis response cache.
type CacheConfig struct {
	URL string        `yaml:"url"`
	TTL time.Duration `yaml:"ttl,omitempty"`
}

// UnmarshalYAML accepts Go duration strings ("5m", "30s") for the ttl
// field.
func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		URL string `yaml:"url"`
		TTL string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.URL = raw.URL
	if raw.TTL != "" {
		ttl, err := time.ParseDuration(raw.TTL)
		if err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", raw.TTL, err)
		}
		c.TTL = ttl
	}
	return nil
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: baseUrl is required", ErrInvalidConfig)
	}
	if c.Project == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidConfig)
	}
	if c.Locale == "" {
		return fmt.Errorf("%w: locale is required", ErrInvalidConfig)
	}
	if c.ContentMode != "" && c.ContentMode != caasclient.ModePreview && c.ContentMode != caasclient.ModeRelease {
		return fmt.Errorf("%w: contentMode must be %q or %q", ErrInvalidConfig, caasclient.ModePreview, caasclient.ModeRelease)
	}
	if c.MaxReferenceDepth != nil && *c.MaxReferenceDepth < 0 {
		return fmt.Errorf("%w: maxReferenceDepth must not be negative", ErrInvalidConfig)
	}
	for key, remote := range c.Remotes {
		if remote.Project == "" {
			return fmt.Errorf("%w: remote %q has no project", ErrInvalidConfig, key)
		}
	}
	return nil
}

// remoteProjects converts the configured remotes into the identifier-level
// view used by mapping.
func (c *Config) remoteProjects() map[string]ident.RemoteProject {
	if len(c.Remotes) == 0 {
		return nil
	}
	remotes := make(map[string]ident.RemoteProject, len(c.Remotes))
	for key, remote := range c.Remotes {
		remotes[key] = ident.RemoteProject{ID: key, Locale: remote.Locale}
	}
	return remotes
}

// remoteRefs converts the configured remotes into the transport-level view
// used by the CaaS client.
func (c *Config) remoteRefs() map[string]caasclient.ProjectRef {
	if len(c.Remotes) == 0 {
		return nil
	}
	refs := make(map[string]caasclient.ProjectRef, len(c.Remotes))
	for key, remote := range c.Remotes {
		refs[key] = caasclient.ProjectRef{Project: remote.Project, APIKey: remote.APIKey}
	}
	return refs
}
