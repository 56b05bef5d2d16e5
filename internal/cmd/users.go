package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "users",
		Aliases: []string{"ls", "list"},
		Short:   "List users known to the backend",
		Long: `List every user id the selected backend knows, with its full name.

Records missing firstName or lastName are listed with the problem instead
of a name.`,
		Example: `  profiles users
  profiles --backend fake users --json`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			b, err := openBackend(settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			entries, err := b.directoryEntries(cmdContext(cmd))
			if err != nil {
				return err
			}
			if isJSON(cmd) {
				return printJSON(cmd, entries)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No users found")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tNAME")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", e.ID, e.display())
			}
			return w.Flush()
		}),
	}
}
