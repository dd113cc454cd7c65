package endpoints

import (
	"html/template"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/swaggo/swag"

	"github.com/jackzampolin/isbnscan/docs/swagger"
	"github.com/jackzampolin/isbnscan/internal/api"
	"github.com/jackzampolin/isbnscan/version"
)

// SwaggerEndpoint serves the OpenAPI document generated by swag.
// The host is rewritten per request so "Try it out" targets the server
// that served the page, whatever address it was reached on.
type SwaggerEndpoint struct {
	// Spec is the document to serve (default: swagger.SwaggerInfo).
	Spec *swag.Spec
}

func (e *SwaggerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger.json", e.handler
}

func (e *SwaggerEndpoint) RequiresInit() bool { return false }

func (e *SwaggerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	base := e.Spec
	if base == nil {
		base = swagger.SwaggerInfo
	}
	if base.SwaggerTemplate == "" {
		writeError(w, http.StatusNotFound, "swagger document not available")
		return
	}

	spec := *base
	spec.Host = r.Host
	spec.Schemes = []string{"http"}
	if r.TLS != nil {
		spec.Schemes = []string{"https"}
	}
	if v := version.GitRelease; v != "dev" {
		spec.Version = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Write([]byte(spec.ReadDoc()))
}

func (e *SwaggerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Fetch the OpenAPI document from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			var spec map[string]any
			if err := client.Get(cmd.Context(), "/swagger.json", &spec); err != nil {
				return err
			}

			if outputFile != "" {
				return api.OutputToFile(spec, outputFile)
			}
			return api.Output(spec)
		},
	}
	cmd.Flags().StringVar(&outputFile, "file", "", "Write the document to this path (.json or .yaml)")
	return cmd
}

var swaggerUIPage = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>{{.Title}}</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '{{.SpecURL}}',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`))

// SwaggerUIEndpoint serves Swagger UI pointed at /swagger.json.
type SwaggerUIEndpoint struct{}

func (e *SwaggerUIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger", e.handler
}

func (e *SwaggerUIEndpoint) RequiresInit() bool { return false }

func (e *SwaggerUIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	swaggerUIPage.Execute(w, struct{ Title, SpecURL string }{
		Title:   swagger.SwaggerInfo.Title,
		SpecURL: "/swagger.json",
	})
}

func (e *SwaggerUIEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:    "swagger-ui",
		Hidden: true,
		Short:  "Print the Swagger UI address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("Open in browser:", getServerURL()+"/swagger")
			return nil
		},
	}
}
