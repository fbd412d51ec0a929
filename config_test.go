package fsxa

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidi29/fsxa-api/caasclient"
)

func validConfig() *Config {
	return &Config{
		BaseURL: "https://caas.example.com",
		APIKey:  "secret",
		Project: "myproject",
		Locale:  "en_GB",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: "baseUrl",
		},
		{
			name:    "missing project",
			mutate:  func(c *Config) { c.Project = "" },
			wantErr: "project",
		},
		{
			name:    "missing locale",
			mutate:  func(c *Config) { c.Locale = "" },
			wantErr: "locale",
		},
		{
			name:    "bad content mode",
			mutate:  func(c *Config) { c.ContentMode = "draft" },
			wantErr: "contentMode",
		},
		{
			name:   "preview mode",
			mutate: func(c *Config) { c.ContentMode = caasclient.ModePreview },
		},
		{
			name: "negative depth",
			mutate: func(c *Config) {
				depth := -1
				c.MaxReferenceDepth = &depth
			},
			wantErr: "maxReferenceDepth",
		},
		{
			name: "remote without project",
			mutate: func(c *Config) {
				c.Remotes = map[string]RemoteProjectConfig{"media": {Locale: "en_GB"}}
			},
			wantErr: `remote "media"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsxa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUrl: https://caas.example.com
apikey: secret
project: myproject
contentMode: preview
locale: de_DE
maxReferenceDepth: 3
remotes:
  media:
    project: media-project
    locale: en_GB
    apikey: media-key
cache:
  url: redis://localhost:6379
  ttl: 10m
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://caas.example.com", cfg.BaseURL)
	assert.Equal(t, "preview", cfg.ContentMode)
	assert.Equal(t, "de_DE", cfg.Locale)
	require.NotNil(t, cfg.MaxReferenceDepth)
	assert.Equal(t, 3, *cfg.MaxReferenceDepth)
	require.NotNil(t, cfg.Cache)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)

	remotes := cfg.remoteProjects()
	require.Contains(t, remotes, "media")
	assert.Equal(t, "media", remotes["media"].ID)
	assert.Equal(t, "en_GB", remotes["media"].Locale)

	refs := cfg.remoteRefs()
	require.Contains(t, refs, "media")
	assert.Equal(t, "media-project", refs["media"].Project)
	assert.Equal(t, "media-key", refs["media"].APIKey)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fsxa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: [broken"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
