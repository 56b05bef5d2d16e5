package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// editDistance is the Levenshtein distance between a and b, using one row.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

// closest returns the candidate nearest to input, or "" when none is
// within maxSuggestDistance. Leading dashes are ignored for comparison.
func closest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimLeft(input, "-"))
	if input == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := editDistance(input, strings.ToLower(strings.TrimLeft(c, "-")))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// unknownInputHint returns a "did you mean" line for cobra's unknown
// command and unknown flag errors, or "".
func unknownInputHint(err error, root *cobra.Command, args []string) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unknown command"):
		var names []string
		for _, c := range root.Commands() {
			if c.IsAvailableCommand() {
				names = append(names, c.Name())
				names = append(names, c.Aliases...)
			}
		}
		if s := closest(quoted(msg), names); s != "" {
			return fmt.Sprintf("Did you mean %q?", s)
		}
	case strings.Contains(msg, "unknown flag"), strings.Contains(msg, "unknown shorthand flag"):
		target, _, findErr := root.Find(args)
		if findErr != nil || target == nil {
			target = root
		}
		var names []string
		collect := func(f *pflag.Flag) {
			if !f.Hidden {
				names = append(names, "--"+f.Name)
			}
		}
		target.Flags().VisitAll(collect)
		target.InheritedFlags().VisitAll(collect)
		hint := fmt.Sprintf("Run %q to see supported flags.", target.CommandPath()+" --help")
		if s := closest(flagToken(msg), names); s != "" {
			return fmt.Sprintf("Did you mean %q?\n%s", s, hint)
		}
		return hint
	}
	return ""
}

// quoted returns the first double-quoted substring of s.
func quoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// flagToken extracts the "--name" token from a pflag error message.
func flagToken(msg string) string {
	idx := strings.Index(msg, "--")
	if idx < 0 {
		return ""
	}
	token := msg[idx:]
	if end := strings.IndexAny(token, " =\n"); end >= 0 {
		token = token[:end]
	}
	return token
}
