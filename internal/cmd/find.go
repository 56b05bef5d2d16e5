package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/resolve"
)

func newFindCmd() *cobra.Command {
	var (
		limit int
		best  bool
	)

	cmd := &cobra.Command{
		Use:     "find <name>",
		Aliases: []string{"search", "f"},
		Short:   "Fuzzy search users by name",
		Long: `Fuzzy search the backend directory by full name.

With --best, only the single best match is printed; an ambiguous query fails
and lists the candidates.`,
		Example: `  profiles --backend fake find rose
  profiles find "amy p" --best
  profiles --backend redis find tyler --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return newUsageError("search query is required")
			}
			if limit < 1 {
				return newUsageError("--limit must be at least 1")
			}

			b, err := openBackend(settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			entries, err := b.directoryEntries(cmdContext(cmd))
			if err != nil {
				return err
			}
			items := make([]resolve.Named, 0, len(entries))
			for _, e := range entries {
				if e.Name != nil {
					items = append(items, resolve.Named{ID: e.ID, Name: e.Name.String()})
				}
			}

			if best {
				id, err := resolve.FuzzyMatch(query, items)
				if err != nil {
					return err
				}
				if isJSON(cmd) {
					for _, item := range items {
						if item.ID == id {
							return printJSON(cmd, resolve.Match{ID: item.ID, Name: item.Name})
						}
					}
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}

			matches := resolve.FuzzyMatchAll(query, items, limit)
			if len(matches) == 0 {
				return api.NewStructuredError(api.ErrNotFound, fmt.Sprintf("no users match %q", query))
			}
			if isJSON(cmd) {
				return printJSON(cmd, matches)
			}

			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tNAME\tSCORE")
			for _, m := range matches {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", m.ID, m.Name, m.Score)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum matches to show")
	cmd.Flags().BoolVar(&best, "best", false, "Print only the best matching id")
	flagAlias(cmd.Flags(), "limit", "lim")

	return cmd
}
