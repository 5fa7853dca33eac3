package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/internal/project"
	"github.com/wayfind-dev/wayfind/pkg/manifest"
	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create wayfind.json and a starter route manifest",
		Long: `Set up the current directory as a wayfind project: write a
wayfind.json with defaults the other commands read, and a starter
route manifest with a home route, a sign-in route, a gated account
route, and a not-found fallback.

Existing files are left alone unless --force is given.

Examples:
  wayfind init
  wayfind init my-app
  wayfind init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runInit(name, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(name string, force bool) error {
	printBanner()
	fmt.Println("  Setting up a wayfind project...")
	fmt.Println()

	if name == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		name = filepath.Base(wd)
	}

	if _, err := os.Stat(project.FileName); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", project.FileName)
	}

	cfg := project.New()
	cfg.Name = name

	info("Writing %s...", project.FileName)
	if err := cfg.SaveTo(project.FileName); err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Manifest); os.IsNotExist(err) || force {
		info("Writing starter manifest %s...", cfg.Manifest)
		if err := writeStarterManifest(cfg.Manifest); err != nil {
			return err
		}
	} else {
		warn("%s already exists, keeping it", cfg.Manifest)
	}

	fmt.Println()
	success("Initialized %s", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	fmt.Println("    wayfind routes")
	fmt.Println("    wayfind serve")
	fmt.Println()

	return nil
}

// writeStarterManifest exports a small route table showing the main
// declaration shapes: plain routes, a gate with a fallback, a not-found
// fallback.
func writeStarterManifest(path string) error {
	tree, err := routetree.New(
		&routetree.Route{Pattern: "/", Name: "home"},
		&routetree.Route{Pattern: "/login", Name: "login"},
		&routetree.Gate{Fallback: "login", Children: []routetree.Node{
			&routetree.Route{Pattern: "/account", Name: "account"},
		}},
		&routetree.Route{Pattern: "/404", NotFound: true},
	)
	if err != nil {
		return err
	}

	data, err := manifest.Export(tree).Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
