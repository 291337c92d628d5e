package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCmd_FileNotFound(t *testing.T) {
	err := runValidate(validateCmd, []string{"nonexistent.yaml"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "manifest validation failed")
}

func TestValidateCmd_ValidManifest(t *testing.T) {
	tempDir := t.TempDir()
	manifestFile := filepath.Join(tempDir, "repos.yaml")
	manifest := `owner: octocat
repositories:
  - name: blog
  - name: docs
`
	require.NoError(t, os.WriteFile(manifestFile, []byte(manifest), 0644))

	err := runValidate(validateCmd, []string{manifestFile})
	assert.NoError(t, err)
}

func TestValidateCmd_InvalidManifest(t *testing.T) {
	tempDir := t.TempDir()
	manifestFile := filepath.Join(tempDir, "repos.yaml")
	manifest := `owner: octocat
repositories:
  - name: "bad name"
`
	require.NoError(t, os.WriteFile(manifestFile, []byte(manifest), 0644))

	err := runValidate(validateCmd, []string{manifestFile})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "alphanumeric")
}
