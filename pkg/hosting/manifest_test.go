package hosting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifestYAML() string {
	return `owner: octocat
visibility: public
branch: main
repositories:
  - name: blog
    description: Personal blog
  - name: docs
`
}

func TestLoadManifest(t *testing.T) {
	manifest, err := LoadManifest([]byte(validManifestYAML()))

	require.NoError(t, err)
	assert.Equal(t, "octocat", manifest.Owner)
	assert.Equal(t, VisibilityPublic, manifest.Visibility)
	assert.Equal(t, "main", manifest.Branch)
	assert.Equal(t, []string{"blog", "docs"}, manifest.Names())
	assert.Equal(t, "Personal blog", manifest.Repositories[0].Description)
}

func TestLoadManifestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validManifestYAML()), 0600))

	manifest, err := LoadManifestFromFile(path)

	require.NoError(t, err)
	assert.Len(t, manifest.Repositories, 2)
}

func TestLoadManifestFromFileMissing(t *testing.T) {
	_, err := LoadManifestFromFile(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest file")
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		wantErr  string
	}{
		{
			name:     "empty repository list",
			manifest: Manifest{},
			wantErr:  "at least one repository",
		},
		{
			name: "invalid visibility",
			manifest: Manifest{
				Visibility:   "internal",
				Repositories: []RepositoryEntry{{Name: "blog"}},
			},
			wantErr: "visibility must be public or private",
		},
		{
			name: "empty repository name",
			manifest: Manifest{
				Repositories: []RepositoryEntry{{Name: ""}},
			},
			wantErr: "repository name is required",
		},
		{
			name: "invalid characters in name",
			manifest: Manifest{
				Repositories: []RepositoryEntry{{Name: "my repo"}},
			},
			wantErr: "alphanumeric",
		},
		{
			name: "leading period",
			manifest: Manifest{
				Repositories: []RepositoryEntry{{Name: ".hidden"}},
			},
			wantErr: "cannot start or end with a period",
		},
		{
			name: "duplicate names",
			manifest: Manifest{
				Repositories: []RepositoryEntry{{Name: "blog"}, {Name: "blog"}},
			},
			wantErr: "duplicate name",
		},
		{
			name: "valid",
			manifest: Manifest{
				Visibility:   VisibilityPrivate,
				Repositories: []RepositoryEntry{{Name: "blog"}, {Name: "my_site.v2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var hostingErr *Error
			require.ErrorAs(t, err, &hostingErr)
			assert.Equal(t, ErrorTypeValidation, hostingErr.Type)
		})
	}
}

func TestManifestFilter(t *testing.T) {
	manifest, err := LoadManifest([]byte(validManifestYAML()))
	require.NoError(t, err)

	t.Run("subset", func(t *testing.T) {
		filtered, err := manifest.Filter([]string{"docs"})
		require.NoError(t, err)
		assert.Equal(t, []string{"docs"}, filtered.Names())
		assert.Equal(t, manifest.Owner, filtered.Owner)
		assert.Equal(t, manifest.Branch, filtered.Branch)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := manifest.Filter([]string{"nope"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nope" not found`)
	})

	t.Run("empty filter returns original", func(t *testing.T) {
		filtered, err := manifest.Filter(nil)
		require.NoError(t, err)
		assert.Equal(t, manifest, filtered)
	})
}
