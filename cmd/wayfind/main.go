package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/internal/diag"
	"github.com/wayfind-dev/wayfind/internal/project"
	"github.com/wayfind-dev/wayfind/pkg/manifest"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┬ ┬┌─┐┬┌┐┌┌┬┐
  ║║║├─┤└┬┘├┤ ││││ ││
  ╚╩╝┴ ┴ ┴ └  ┴┘└┘─┴┘
`

const defaultManifest = project.DefaultManifest

func main() {
	rootCmd := &cobra.Command{
		Use:   "wayfind",
		Short: "Route tooling for wayfind applications",
		Long: `Wayfind is a client-side route resolver for Go applications.

The CLI works from an exported route manifest (routes.json):

  • Inspect the route table (routes)
  • Resolve a location the way the client would (match)
  • Validate every declaration at once (check)
  • Serve an application shell with correct redirect and 404
    semantics, plus /metrics and a history bridge (serve)
  • Publish the manifest to S3 for other tooling (publish)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		initCmd(),
		routesCmd(),
		matchCmd(),
		checkCmd(),
		serveCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			fmt.Fprint(os.Stderr, d.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the Wayfind ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

// projectConfig returns the wayfind.json configuration for the working
// directory, or built-in defaults when no project file exists.
func projectConfig() *project.Config {
	cfg, err := project.Load(".")
	if err != nil {
		return project.New()
	}
	return cfg
}

// resolveManifest picks the manifest path: an explicit --manifest flag
// wins over wayfind.json, which wins over the built-in default.
func resolveManifest(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("manifest") {
		return flagValue
	}
	return projectConfig().Manifest
}

// classifyManifestError turns manifest read and decode failures into
// coded diagnostics.
func classifyManifestError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return diag.New("W023").WithSubject("no manifest at " + path).Wrap(err)
	}
	return diag.Classify(err)
}

// loadTree reads a manifest and rebuilds its route tree.
func loadTree(path string) (*manifest.Manifest, *routetree.Tree, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, classifyManifestError(path, err)
	}
	tree, err := m.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, tree, nil
}
