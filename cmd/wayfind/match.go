package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/pkg/routetree"
)

func matchCmd() *cobra.Command {
	var manifestPath string
	var maxHops int

	cmd := &cobra.Command{
		Use:   "match <location>",
		Short: "Resolve a location against the route table",
		Long: `Resolve a location ("/path" or "/path?query") the way the client
router would: first declared pattern wins, redirect routes are followed
to their settled target, and path captures beat query keys of the same
name.

Examples:
  wayfind match /projects/42
  wayfind match "/projects/42?tab=activity"
  wayfind match /legacy/7 --manifest build/routes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(resolveManifest(cmd, manifestPath), args[0], maxHops)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "Route manifest file")
	cmd.Flags().IntVar(&maxHops, "max-hops", 10, "Redirect hops to follow before giving up")

	return cmd
}

func runMatch(manifestPath, location string, maxHops int) error {
	_, tree, err := loadTree(manifestPath)
	if err != nil {
		return err
	}

	match := tree.Resolve(location)

	hops := 0
	for match.IsRedirect() {
		hops++
		if hops > maxHops {
			return fmt.Errorf("redirect limit exceeded: %d hops from %q", hops, location)
		}
		target, err := match.ResolveRedirect()
		if err != nil {
			return err
		}
		info("%s -> %s", match.Route.Route.Pattern, target)
		match = tree.Resolve(target)
	}

	if match.NotFound {
		if match.Matched() {
			warn("no pattern matches %s, not-found fallback %s answers", location, match.Route.Route.Pattern)
			return nil
		}
		return fmt.Errorf("no route matches %s and the table has no not-found fallback", location)
	}

	success("%s", match.Route.Route.Pattern)
	if name := match.Route.Route.Name; name != "" {
		info("name:    %s", name)
	}
	if gate := match.Gate(); gate != nil {
		info("gate:    fallback %s", gate.Fallback)
	}
	if groups := match.Groups(); len(groups) > 0 {
		for _, g := range groups {
			info("group:   %s", g.String())
		}
	}
	printParams(match)

	return nil
}

func printParams(match *routetree.Match) {
	if len(match.Params) == 0 {
		return
	}
	for _, key := range match.Params.Keys() {
		info("param:   %s = %s", key, match.Params.String(key))
	}
}
