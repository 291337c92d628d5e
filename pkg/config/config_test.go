package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `github:
  owner: octocat
  token: file-token
defaults:
  visibility: private
  branch: pages
  concurrency: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.GitHub.Owner)
	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.Equal(t, "private", cfg.Defaults.Visibility)
	assert.Equal(t, "pages", cfg.Defaults.Branch)
	assert.Equal(t, 3, cfg.Defaults.Concurrency)
}

func TestLoadConfigFromPathMissingFile(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfigFromPathInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github: [broken"), 0600))

	_, err := LoadConfigFromPath(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := &Config{
		GitHub:   GitHubConfig{Owner: "octocat"},
		Defaults: DefaultsConfig{Visibility: "public", Branch: "main", Concurrency: 1},
	}
	require.NoError(t, cfg.SaveConfigToPath(path))

	loaded, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name        string
		githubToken string
		ghToken     string
		configToken string
		want        string
		wantErr     bool
	}{
		{
			name:        "GITHUB_TOKEN takes precedence",
			githubToken: "env-token",
			ghToken:     "gh-token",
			configToken: "file-token",
			want:        "env-token",
		},
		{
			name:        "GH_TOKEN used when GITHUB_TOKEN absent",
			ghToken:     "gh-token",
			configToken: "file-token",
			want:        "gh-token",
		},
		{
			name:        "config token used when env absent",
			configToken: "file-token",
			want:        "file-token",
		},
		{
			name:    "missing everywhere is an error",
			wantErr: true,
		},
		{
			name:        "env token is trimmed",
			githubToken: "  padded-token \n",
			want:        "padded-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.githubToken)
			t.Setenv("GH_TOKEN", tt.ghToken)

			cfg := &Config{GitHub: GitHubConfig{Token: tt.configToken}}
			token, err := cfg.ResolveToken()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no GitHub token found")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestResolveOwner(t *testing.T) {
	t.Run("env overrides config", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "env-owner")
		cfg := &Config{GitHub: GitHubConfig{Owner: "file-owner"}}
		assert.Equal(t, "env-owner", cfg.ResolveOwner())
	})

	t.Run("config fallback", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "")
		cfg := &Config{GitHub: GitHubConfig{Owner: "file-owner"}}
		assert.Equal(t, "file-owner", cfg.ResolveOwner())
	})

	t.Run("empty when unset", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "")
		cfg := &Config{}
		assert.Equal(t, "", cfg.ResolveOwner())
	})
}
