package api

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

// Endpoint defines both an HTTP route and its corresponding CLI command.
// This provides a single source of truth for API operations.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit returns true if the handler needs a started server:
	// it reads the extractor, scan pool or metrics from the request context,
	// or reports uptime.
	RequiresInit() bool

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getServerURL is called at runtime, after flags are parsed.
	Command(getServerURL func() string) *cobra.Command
}

// CommandGroup returns the CLI group for a route path: the first segment
// after /api/, or "" for routes that sit at the top of the api command.
//
//	/api/isbn/extract -> "isbn"
//	/api/metrics      -> "metrics"
//	/health           -> ""
func CommandGroup(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	group, _, _ := strings.Cut(rest, "/")
	return group
}
