package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sampleapi/profile-cli/internal/config"
	"github.com/sampleapi/profile-cli/internal/profile"
	"github.com/sampleapi/profile-cli/internal/validation"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <id> <first> <last>",
		Short: "Write a user into the Redis directory",
		Long: `Write a user record into the Redis directory, replacing any existing
record for the id. Only the redis backend is writable.`,
		Example: `  profiles --backend redis seed 1234 Rose Tyler
  PROFILES_BACKEND=redis profiles seed 4321 Amy Pond`,
		Args: cobra.ExactArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if settings.Backend != config.BackendRedis {
				return newUsageError("seed requires --backend %s (got %q)", config.BackendRedis, settings.Backend)
			}
			id := strings.TrimSpace(args[0])
			first := strings.TrimSpace(args[1])
			last := strings.TrimSpace(args[2])
			if err := validation.ValidateUserID(id); err != nil {
				return err
			}
			if err := validation.ValidateName(profile.FieldFirstName, first); err != nil {
				return err
			}
			if err := validation.ValidateName(profile.FieldLastName, last); err != nil {
				return err
			}

			b, err := openBackend(settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			fields := map[string]string{
				profile.FieldFirstName: first,
				profile.FieldLastName:  last,
			}
			if err := b.redis.Seed(cmdContext(cmd), id, fields); err != nil {
				return err
			}

			name := profile.Name{First: first, Last: last}
			if isJSON(cmd) {
				return printJSON(cmd, userEntry{ID: id, Name: &name})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s: %s\n", id, name)
			return nil
		}),
	}
}
