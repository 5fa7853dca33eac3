package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/internal/diag"
	"github.com/wayfind-dev/wayfind/pkg/manifest"
)

func checkCmd() *cobra.Command {
	var manifestPath string
	var compact bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the route table",
		Long: `Rebuild the route table from the manifest and report every
declaration problem at once: invalid patterns, duplicate names,
multiple not-found routes, and gate fallbacks that are missing,
gated themselves, or need path parameters.

Each problem carries a code (W001, W002, ...) with an explanation
and a hint. Exits non-zero when any problem is found, so it slots
into CI.

Examples:
  wayfind check
  wayfind check --manifest build/routes.json
  wayfind check --compact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(resolveManifest(cmd, manifestPath), compact)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "Route manifest file")
	cmd.Flags().BoolVar(&compact, "compact", false, "One line per problem")

	return cmd
}

func runCheck(manifestPath string, compact bool) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return classifyManifestError(manifestPath, err)
	}

	if err := m.Validate(); err != nil {
		problems := diag.ClassifyAll(err)
		for _, p := range problems {
			if compact {
				errorMsg("%s", p.FormatCompact())
			} else {
				fmt.Fprint(os.Stderr, p.Format())
			}
		}
		return fmt.Errorf("%d problems in %s", len(problems), manifestPath)
	}

	success("%s: %d routes, no problems", manifestPath, m.Routes())
	return nil
}
