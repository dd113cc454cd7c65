package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
	routes    map[string]bool
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]bool)}
}

// Register adds an endpoint to the registry. Registering a method and path
// twice is a programming error and panics, as http.ServeMux would.
func (r *Registry) Register(ep Endpoint) {
	method, path, _ := ep.Route()
	key := method + " " + path
	if r.routes[key] {
		panic(fmt.Sprintf("api: duplicate endpoint %s", key))
	}
	r.routes[key] = true
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that require full server initialization.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// Routes lists registered routes as "METHOD /path", sorted.
func (r *Registry) Routes() []string {
	routes := make([]string, 0, len(r.routes))
	for key := range r.routes {
		routes = append(routes, key)
	}
	sort.Strings(routes)
	return routes
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Commands for /api/<group>/... routes are nested under a <group> command;
// the rest sit directly under api.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running isbnscan server via HTTP.

These commands require a running server (isbnscan serve).
Use --server to specify a custom server URL.

Examples:
  isbnscan api health                         # Check server health
  isbnscan api isbn extract page.txt          # Extract an ISBN remotely
  isbnscan api isbn validate 0-306-40615-2    # Validate a code
  isbnscan api metrics show                   # Stage hit counters`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		_, path, _ := ep.Route()
		parent := apiCmd
		if name := CommandGroup(path); name != "" {
			group, ok := groups[name]
			if !ok {
				group = &cobra.Command{
					Use:   name,
					Short: fmt.Sprintf("Commands for /api/%s", name),
				}
				groups[name] = group
				apiCmd.AddCommand(group)
			}
			parent = group
		}
		parent.AddCommand(ep.Command(getServerURL))
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
