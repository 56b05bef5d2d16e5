package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sampleapi/profile-cli/internal/api"
	"github.com/sampleapi/profile-cli/internal/profile"
	"github.com/sampleapi/profile-cli/internal/resolve"
	"github.com/sampleapi/profile-cli/internal/validation"
)

const defaultGetConcurrency = 4

// lookupResult is the JSON shape of one resolved id.
type lookupResult struct {
	ID         string               `json:"id"`
	FirstName  string               `json:"firstName,omitempty"`
	LastName   string               `json:"lastName,omitempty"`
	FullName   string               `json:"fullName,omitempty"`
	Error      *api.StructuredError `json:"error,omitempty"`
	DidYouMean string               `json:"didYouMean,omitempty"`

	name *profile.Name
	err  error
}

func newGetCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:     "get <id>...",
		Aliases: []string{"name", "g"},
		Short:   "Resolve user ids to full names",
		Long: `Resolve one or more user ids to full names through the selected backend.

Each id is looked up independently; a failure for one id does not stop the
others. Results are printed in the order the ids were given.`,
		Example: `  profiles get 1234
  echo "1234 4321" | profiles get -
  profiles --backend fake get 1234 4321
  profiles get 1234 --json --query '.fullName'`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return newUsageError("--concurrency must be at least 1")
			}
			ids, err := collectIDs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			b, err := openBackend(settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			ctx := cmdContext(cmd)
			results, err := lookupAll(ctx, b.service(settings), ids, concurrency)
			if err != nil {
				return err
			}
			addSuggestions(ctx, b, results)

			if err := printResults(cmd, results); err != nil {
				return err
			}
			for _, r := range results {
				if r.err != nil {
					return &handledError{err: r.err, exitCode: ExitCode(r.err)}
				}
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", defaultGetConcurrency, "Maximum lookups in flight")
	flagAlias(cmd.Flags(), "concurrency", "cc")

	return cmd
}

// collectIDs returns the ids named by args. A lone "-" reads
// whitespace-separated ids from in.
func collectIDs(in io.Reader, args []string) ([]string, error) {
	if len(args) == 1 && args[0] == "-" {
		var ids []string
		scanner := bufio.NewScanner(in)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			if err := validation.ValidateUserID(scanner.Text()); err != nil {
				return nil, err
			}
			ids = append(ids, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read ids from stdin: %w", err)
		}
		if len(ids) == 0 {
			return nil, newUsageError("user id is required (stdin was empty)")
		}
		return ids, nil
	}

	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id := strings.TrimSpace(arg)
		if err := validation.ValidateUserID(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// lookupAll resolves ids with at most limit lookups in flight. Per-id
// failures are recorded in the results; only cancellation of ctx aborts.
func lookupAll(ctx context.Context, svc *profile.Service, ids []string, limit int) ([]lookupResult, error) {
	results := make([]lookupResult, len(ids))
	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			r := lookupResult{ID: id}
			name, err := svc.GetFullName(gctx, id)
			if err != nil {
				slog.Debug("lookup failed", "id", id, "error", err)
				r.err = err
				r.Error = api.StructuredErrorFromError(err)
			} else {
				r.name = &name
				r.FirstName = name.First
				r.LastName = name.Last
				r.FullName = name.String()
			}
			// Each goroutine owns results[i].
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// addSuggestions fills DidYouMean for ids the backend does not know.
func addSuggestions(ctx context.Context, b *backend, results []lookupResult) {
	if b.dir == nil {
		return
	}
	var known []string
	loaded := false
	for i := range results {
		if !api.IsLookupError(results[i].err) {
			continue
		}
		if !loaded {
			loaded = true
			entries, err := b.dir.Entries(ctx)
			if err != nil {
				slog.Debug("directory listing failed", "backend", b.name, "error", err)
				return
			}
			for id := range entries {
				known = append(known, id)
			}
		}
		results[i].DidYouMean = resolve.Suggest(results[i].ID, known)
	}
}

func printResults(cmd *cobra.Command, results []lookupResult) error {
	if isJSON(cmd) {
		if len(results) == 1 {
			return printJSON(cmd, results[0])
		}
		return printJSON(cmd, results)
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		profile.PrintHandler(out)(r.name, r.err)
		if r.DidYouMean != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  did you mean %q?\n", r.DidYouMean)
		}
	}
	return nil
}
