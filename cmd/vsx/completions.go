package main

import (
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

// completeItemTitles offers item titles as dynamic shell completions,
// ranked by fuzzy relevance to what's been typed so far.
func completeItemTitles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := cmd.Context()

	a := newApp(ctx, cfg)
	a.engine.Bootstrap(ctx)
	defer a.engine.Stop(0)

	titles := make([]string, 0, 64)
	seen := make(map[string]struct{})
	for _, it := range a.engine.List(ctx) {
		if _, ok := seen[it.Title]; ok {
			continue
		}
		seen[it.Title] = struct{}{}
		titles = append(titles, it.Title)
	}

	if toComplete == "" {
		return titles, cobra.ShellCompDirectiveNoFileComp
	}

	matches := fuzzy.Find(toComplete, titles)
	ranked := make([]string, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, m.Str)
	}
	return ranked, cobra.ShellCompDirectiveNoFileComp
}
