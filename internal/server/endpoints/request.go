package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	extractRequestSchema = `{
  "type": "object",
  "required": ["text"],
  "additionalProperties": false,
  "properties": {
    "name":   {"type": "string", "maxLength": 512},
    "text":   {"type": "string"},
    "format": {"type": "string", "enum": ["", "text", "txt", "plain", "hocr", "html"]}
  }
}`

	batchExtractRequestSchema = `{
  "type": "object",
  "required": ["documents"],
  "additionalProperties": false,
  "properties": {
    "documents": {
      "type": "array",
      "minItems": 1,
      "maxItems": 1000,
      "items": {"$ref": "extract.json"}
    }
  }
}`

	validateRequestSchema = `{
  "type": "object",
  "required": ["code"],
  "additionalProperties": false,
  "properties": {
    "code": {"type": "string", "minLength": 1, "maxLength": 64}
  }
}`
)

var (
	extractSchema      = mustCompileSchema("extract.json")
	batchExtractSchema = mustCompileSchema("batch.json")
	validateSchema     = mustCompileSchema("validate.json")
)

// errRequest marks client mistakes that map to 400.
var errRequest = errors.New("invalid request")

func mustCompileSchema(name string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	resources := map[string]string{
		"extract.json":  extractRequestSchema,
		"batch.json":    batchExtractRequestSchema,
		"validate.json": validateRequestSchema,
	}
	for url, src := range resources {
		if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("failed to load request schema %s: %v", url, err))
		}
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile request schema %s: %v", name, err))
	}
	return schema
}

// decodeRequest reads a JSON body, validates it against schema and decodes
// it into dst. On failure it writes the error response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	if err := validateBody(body, schema, dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func validateBody(body []byte, schema *jsonschema.Schema, dst any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", errRequest, err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", errRequest, describeValidation(verr))
		}
		return fmt.Errorf("%w: %v", errRequest, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errRequest, err)
	}
	return nil
}

// describeValidation flattens a validation error to its most specific causes.
func describeValidation(verr *jsonschema.ValidationError) string {
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return strings.Join(msgs, "; ")
}
