package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sampleapi/profile-cli/internal/config"
	"github.com/sampleapi/profile-cli/internal/debug"
	"github.com/sampleapi/profile-cli/internal/iocontext"
	"github.com/sampleapi/profile-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Backend  string
	BaseURL  string
	RedisURL string
	Timeout  time.Duration
	Output   string
	JSON     bool
	Query    string
	Compact  bool
	Debug    bool
}

// flags and settings are package-level state reset at the start of every
// Execute call; code reading them outside a command's RunE sees stale data.
var (
	flags    rootFlags
	settings config.Settings
)

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{}
	settings = config.Defaults()

	root := &cobra.Command{
		Use:                "profiles",
		Short:              "Resolve user profiles through a pluggable JSON backend",
		Long:               "Resolve user full names through a JSON backend: an in-process HTTP stub, a fixed fake table, or a Redis directory.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)

			if err := config.LoadEnvFile(); err != nil {
				return err
			}
			resolved, err := config.Resolve(overridesFromFlags(cmd))
			if err != nil {
				return err
			}
			settings = resolved

			output := strings.TrimSpace(settings.Output)
			if flags.JSON {
				if flagOrAliasChanged(cmd, "output") && output != "json" {
					return newUsageError("--json conflicts with --output %s", output)
				}
				output = "json"
			}
			if flags.Query != "" && output != "json" && output != "jsonl" && output != "ndjson" {
				if flagOrAliasChanged(cmd, "output") {
					return newUsageError("--query requires --output json or jsonl (or --json)")
				}
				output = "json"
			}
			mode, err := outfmt.Parse(output)
			if err != nil {
				return &usageError{err: err}
			}
			if err := outfmt.ValidateQuery(flags.Query); err != nil {
				return &usageError{err: err}
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			ctx = outfmt.WithQuery(ctx, flags.Query)

			debug.SetupLogger(cmd.ErrOrStderr(), settings.Debug)
			ctx = debug.WithDebug(ctx, settings.Debug)

			cmd.SetContext(ctx)
			return nil
		},
	}

	streams := iocontext.GetIO(ctx)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)
	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Backend, "backend", "b", config.BackendStub, "Backend: stub|fake|redis (env PROFILES_BACKEND)")
	pf.StringVar(&flags.BaseURL, "base-url", config.DefaultBaseURL, "Base URL user requests are built against (env PROFILES_BASE_URL)")
	pf.StringVar(&flags.RedisURL, "redis-url", config.DefaultRedisURL, "Redis URL for the redis backend (env PROFILES_REDIS_URL)")
	pf.DurationVar(&flags.Timeout, "timeout", config.DefaultTimeout, "Per-lookup timeout, 0 disables (env PROFILES_TIMEOUT)")
	pf.StringVarP(&flags.Output, "output", "o", "text", "Output format: text|json|jsonl|ndjson (env PROFILES_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging (env PROFILES_DEBUG)")

	flagAlias(pf, "query", "jq")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "timeout", "to")

	root.AddCommand(newGetCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newUsersCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			if hint := unknownInputHint(err, root, args); hint != "" {
				_, _ = fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n\n%s\n", err, hint)
			} else {
				_, _ = fmt.Fprint(root.ErrOrStderr(), HandleError(err))
			}
		}
		return err
	}
	return nil
}

// overridesFromFlags returns only the flags set on the command line, so
// unset flags do not mask environment values.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	if flagOrAliasChanged(cmd, "backend") {
		o.Backend = &flags.Backend
	}
	if flagOrAliasChanged(cmd, "base-url") {
		o.BaseURL = &flags.BaseURL
	}
	if flagOrAliasChanged(cmd, "redis-url") {
		o.RedisURL = &flags.RedisURL
	}
	if flagOrAliasChanged(cmd, "timeout") {
		o.Timeout = &flags.Timeout
	}
	if flagOrAliasChanged(cmd, "output") {
		o.Output = &flags.Output
	}
	if flagOrAliasChanged(cmd, "debug") {
		o.Debug = &flags.Debug
	}
	return o
}
