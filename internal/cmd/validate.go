package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pageforge/pkg/hosting"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest.yaml>",
	Short: "Validate a provisioning manifest",
	Long: `Validate a provisioning manifest file without contacting GitHub.

Checks repository names against GitHub naming rules, rejects duplicates,
and verifies the visibility and branch settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	manifest, err := hosting.LoadManifestFromFile(args[0])
	if err != nil {
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	fmt.Printf("✓ Manifest is valid: %d repositories\n", len(manifest.Repositories))
	for _, repo := range manifest.Repositories {
		fmt.Printf("  • %s\n", repo.Name)
	}

	return nil
}
