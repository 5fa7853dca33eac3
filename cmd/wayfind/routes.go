package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

func routesCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long: `List every route in declaration order, the order resolution tries them.

For each route the listing shows its pattern, registered name, and
whether it redirects, falls back for unmatched paths, sits behind an
auth gate, or lives inside layout groups.

Examples:
  wayfind routes
  wayfind routes --manifest build/routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(resolveManifest(cmd, manifestPath))
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "Route manifest file")

	return cmd
}

func runRoutes(manifestPath string) error {
	_, tree, err := loadTree(manifestPath)
	if err != nil {
		return err
	}

	routes := tree.Routes()
	if len(routes) == 0 {
		warn("manifest declares no routes")
		return nil
	}

	fmt.Printf("  %-32s %-14s %s\n", "ROUTE", "NAME", "NOTES")
	for _, cr := range routes {
		fmt.Printf("  %-32s %-14s %s\n", cr.Route.Pattern, cr.Route.Name, routeNotes(cr))
	}
	fmt.Println()
	info("%d routes", len(routes))

	return nil
}

// routeNotes summarizes a route's non-pattern properties in one column.
func routeNotes(cr *routetree.CompiledRoute) string {
	var notes []string
	if cr.IsRedirect() {
		notes = append(notes, "-> "+cr.Route.Redirect)
	}
	if cr.Route.NotFound {
		notes = append(notes, "not-found fallback")
	}
	if gate := cr.Gate(); gate != nil {
		notes = append(notes, "gated (fallback "+gate.Fallback+")")
	}
	if groups := cr.Groups; len(groups) > 0 {
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = g.String()
		}
		notes = append(notes, "in "+strings.Join(names, " > "))
	}
	return strings.Join(notes, ", ")
}
