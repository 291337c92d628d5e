package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pageforge/internal/exec"
	"pageforge/pkg/config"
	"pageforge/pkg/fuzzy"
	"pageforge/pkg/hosting"
	"pageforge/pkg/provision"
	"pageforge/pkg/stage"
)

var (
	provisionOwner       string
	provisionRepos       []string
	provisionSelect      bool
	provisionUseAPI      bool
	provisionConcurrency int
	provisionFailFast    bool
	provisionDryRun      bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision <manifest.yaml>",
	Short: "Provision repositories with published Pages sites",
	Long: `Provision every repository listed in a YAML manifest.

For each repository pageforge creates the remote repository, stages a
minimal static landing page in a temporary working directory, commits and
pushes it to the default branch, and enables GitHub Pages on that branch.

Repositories that already exist are skipped, so re-running the same
manifest is idempotent. By default a failure on one repository does not
stop the others; the command exits non-zero if any repository failed.

Examples:
  # Provision everything in the manifest
  pageforge provision repos.yaml

  # Provision a subset
  pageforge provision repos.yaml --repos blog,docs

  # Pick repositories interactively
  pageforge provision repos.yaml --select

  # Use the GitHub REST API instead of the gh CLI
  pageforge provision repos.yaml --use-api

  # Preview without side effects
  pageforge provision repos.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVar(&provisionOwner, "owner", "", "Owning account (overrides manifest and config)")
	provisionCmd.Flags().StringSliceVar(&provisionRepos, "repos", nil, "Comma-separated list of repository names to provision from the manifest")
	provisionCmd.Flags().BoolVar(&provisionSelect, "select", false, "Pick repositories interactively with a fuzzy finder")
	provisionCmd.Flags().BoolVar(&provisionUseAPI, "use-api", false, "Use the GitHub REST API instead of the gh CLI")
	provisionCmd.Flags().IntVar(&provisionConcurrency, "concurrency", 0, "Number of repositories to provision in parallel (default 1)")
	provisionCmd.Flags().BoolVar(&provisionFailFast, "fail-fast", false, "Abort remaining repositories after the first failure")
	provisionCmd.Flags().BoolVar(&provisionDryRun, "dry-run", false, "Print planned repositories without provisioning them")
}

func runProvision(_ *cobra.Command, args []string) error {
	// Load and validate the manifest before anything touches the network.
	manifest, err := hosting.LoadManifestFromFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load pageforge config: %w", err)
	}

	owner := resolveOwner(manifest, cfg)
	if owner == "" {
		return fmt.Errorf("repository owner not specified: use --owner, set owner in the manifest, or set github.owner in config")
	}

	// The token is resolved before any external call so a missing
	// credential fails without side effects.
	token, err := cfg.ResolveToken()
	if err != nil {
		authErr := hosting.NewAuthError(err.Error())
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n\n", authErr)
		fmt.Fprintf(os.Stderr, "%s\n", hosting.GetAuthInstructions())
		return authErr
	}

	manifest, err = selectRepositories(manifest)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runner := exec.NewRunner()

	client, err := buildClient(ctx, runner, cfg, owner, token)
	if err != nil {
		return err
	}

	opts := provision.Options{
		Visibility:  resolveVisibility(manifest, cfg),
		Branch:      resolveBranch(manifest, cfg),
		Concurrency: resolveConcurrency(cfg),
		FailFast:    provisionFailFast,
		DryRun:      provisionDryRun,
	}

	stager := provision.NewGitStager(runner, stage.LoadIdentity())
	provisioner := provision.New(client, stager, owner, opts, os.Stdout)

	names := manifest.Names()
	fmt.Printf("Provisioning %d repositories for %s...\n\n", len(names), owner)

	result := provisioner.ProvisionAll(ctx, names)
	displayResult(result, owner)

	return result.Err()
}

// resolveOwner applies precedence: flag, then manifest, then env/config.
func resolveOwner(manifest *hosting.Manifest, cfg *config.Config) string {
	if provisionOwner != "" {
		return provisionOwner
	}
	if manifest.Owner != "" {
		return manifest.Owner
	}
	return cfg.ResolveOwner()
}

func resolveVisibility(manifest *hosting.Manifest, cfg *config.Config) hosting.Visibility {
	if manifest.Visibility != "" {
		return manifest.Visibility
	}
	if cfg.Defaults.Visibility != "" {
		return hosting.Visibility(cfg.Defaults.Visibility)
	}
	return hosting.VisibilityPublic
}

func resolveBranch(manifest *hosting.Manifest, cfg *config.Config) string {
	if manifest.Branch != "" {
		return manifest.Branch
	}
	if cfg.Defaults.Branch != "" {
		return cfg.Defaults.Branch
	}
	return "main"
}

func resolveConcurrency(cfg *config.Config) int {
	if provisionConcurrency > 0 {
		return provisionConcurrency
	}
	if cfg.Defaults.Concurrency > 0 {
		return cfg.Defaults.Concurrency
	}
	return 1
}

// selectRepositories narrows the manifest via --repos or --select.
func selectRepositories(manifest *hosting.Manifest) (*hosting.Manifest, error) {
	if len(provisionRepos) > 0 {
		filtered, err := manifest.Filter(provisionRepos)
		if err != nil {
			return nil, err
		}
		return filtered, nil
	}

	if provisionSelect {
		options := make([]fuzzy.Option, 0, len(manifest.Repositories))
		for _, repo := range manifest.Repositories {
			options = append(options, fuzzy.Option{
				Value:       repo.Name,
				Description: repo.Description,
			})
		}

		picker := fuzzy.NewFzfPicker("Select repositories to provision:")
		selected, err := picker.SelectMany(options)
		if err != nil {
			return nil, fmt.Errorf("repository selection failed: %w", err)
		}

		return manifest.Filter(selected)
	}

	return manifest, nil
}

// buildClient picks the hosting client implementation. The API path
// validates the token up front; the CLI path lets gh report auth problems
// per invocation.
func buildClient(ctx context.Context, runner exec.Runner, cfg *config.Config, owner, token string) (hosting.Client, error) {
	if !provisionUseAPI {
		return hosting.NewCLIClient(runner, owner, token), nil
	}

	authManager := hosting.NewAuthManager()
	tokenInfo, err := authManager.AuthenticateFromConfig(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "%s\n", hosting.GetAuthInstructions())
		return nil, err
	}

	fmt.Printf("✓ Authenticated as %s\n", tokenInfo.User)
	return hosting.NewAPIClient(runner, owner, token), nil
}

// displayResult prints the aggregate outcome of a provisioning run.
func displayResult(result *provision.Result, owner string) {
	if result.Summary.Total == 0 {
		return
	}

	if len(result.Succeeded) > 0 {
		fmt.Printf("\n✅ Provisioned repositories:\n")
		for _, name := range result.Succeeded {
			fmt.Printf("  • %s/%s: https://%s.github.io/%s\n", owner, name, owner, name)
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Printf("\n⏭️  Skipped repositories:\n")
		for _, name := range result.Skipped {
			fmt.Printf("  • %s/%s\n", owner, name)
		}
	}

	if len(result.Failed) > 0 {
		fmt.Printf("\n❌ Failed repositories:\n")
		for name, err := range result.Failed {
			fmt.Printf("  • %s/%s: %v\n", owner, name, err)
		}
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Total repositories: %d\n", result.Summary.Total)
	fmt.Printf("  • Provisioned: %d\n", result.Summary.SuccessCount)
	fmt.Printf("  • Skipped: %d\n", result.Summary.SkippedCount)
	fmt.Printf("  • Failed: %d\n", result.Summary.FailureCount)
}
