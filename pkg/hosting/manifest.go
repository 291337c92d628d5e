package hosting

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the repositories to provision along with the settings
// shared by all of them.
type Manifest struct {
	Owner        string            `yaml:"owner,omitempty"`
	Visibility   Visibility        `yaml:"visibility,omitempty"`
	Branch       string            `yaml:"branch,omitempty"`
	Repositories []RepositoryEntry `yaml:"repositories"`
}

// RepositoryEntry is one target repository in a manifest.
type RepositoryEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

var validRepoName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Validate validates the manifest without touching the network.
func (m *Manifest) Validate() error {
	if len(m.Repositories) == 0 {
		return NewError(ErrorTypeValidation, "manifest must list at least one repository", nil)
	}

	if m.Visibility != "" && !m.Visibility.Valid() {
		return NewError(ErrorTypeValidation,
			fmt.Sprintf("visibility must be public or private, got %q", m.Visibility), nil)
	}

	seen := make(map[string]bool)
	for i, repo := range m.Repositories {
		if err := validateRepositoryName(repo.Name); err != nil {
			return NewError(ErrorTypeValidation, fmt.Sprintf("repository %d: %v", i+1, err), err)
		}
		if seen[repo.Name] {
			return NewError(ErrorTypeValidation,
				fmt.Sprintf("repository %d: duplicate name %q", i+1, repo.Name), nil)
		}
		seen[repo.Name] = true
	}

	return nil
}

// Names returns the repository names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Repositories))
	for _, repo := range m.Repositories {
		names = append(names, repo.Name)
	}
	return names
}

// Filter returns a copy of the manifest restricted to the named
// repositories. Names not present in the manifest are an error.
func (m *Manifest) Filter(names []string) (*Manifest, error) {
	if len(names) == 0 {
		return m, nil
	}

	byName := make(map[string]RepositoryEntry, len(m.Repositories))
	for _, repo := range m.Repositories {
		byName[repo.Name] = repo
	}

	filtered := &Manifest{
		Owner:      m.Owner,
		Visibility: m.Visibility,
		Branch:     m.Branch,
	}
	for _, name := range names {
		repo, ok := byName[name]
		if !ok {
			return nil, NewError(ErrorTypeValidation,
				fmt.Sprintf("repository %q not found in manifest", name), nil)
		}
		filtered.Repositories = append(filtered.Repositories, repo)
	}

	return filtered, nil
}

// validateRepositoryName validates a name according to GitHub rules.
func validateRepositoryName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("repository name must be 100 characters or less")
	}

	if !validRepoName.MatchString(name) {
		return fmt.Errorf("repository name can only contain alphanumeric characters, periods, hyphens, and underscores")
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("repository name cannot start or end with a period")
	}

	return nil
}

// LoadManifest loads a manifest from YAML data.
func LoadManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// LoadManifestFromFile loads a manifest from a file.
func LoadManifestFromFile(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return LoadManifest(data)
}
