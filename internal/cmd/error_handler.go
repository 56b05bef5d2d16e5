package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sampleapi/profile-cli/internal/api"
)

// HandleError renders an error with suggestions for the terminal.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var fetchErr *api.Error
	var apiErr *api.APIError

	switch {
	case errors.As(err, &fetchErr) && fetchErr.Kind == api.KindLookup:
		fmt.Fprintf(&msg, "User not found: %s\n\n", fetchErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - List known users: profiles users\n")
		msg.WriteString("  - Search by name: profiles find <name>\n")

	case errors.As(err, &fetchErr) && fetchErr.Kind == api.KindData:
		fmt.Fprintf(&msg, "Malformed user record: %s\n\n", fetchErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Records need non-empty firstName and lastName strings\n")

	case errors.As(err, &fetchErr) && fetchErr.Kind == api.KindTimeout:
		fmt.Fprintf(&msg, "Timed out: %s\n\n", fetchErr.Message)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Raise the limit: --timeout 10s\n")

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n", apiErr.StatusCode, apiErr.Body)
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check that Redis is running at --redis-url\n")
		msg.WriteString("  - Or use the built-in backends: --backend stub|fake\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}
