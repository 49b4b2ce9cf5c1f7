package http

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/MKhiriev/go-service-sdk/models"
)

// API document paths.
const (
	DocsPath         = "/swagger/v1/swagger.json"
	DocsRedirectPath = "/swagger"
)

const openAPIVersion = "3.1.0"

type openAPIDocument struct {
	OpenAPI    string                                 `json:"openapi"`
	Info       openAPIInfo                            `json:"info"`
	Paths      map[string]map[string]openAPIOperation `json:"paths"`
	Components *openAPIComponents                     `json:"components,omitempty"`
}

type openAPIInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openAPIOperation struct {
	Summary     string                     `json:"summary,omitempty"`
	Description string                     `json:"description,omitempty"`
	Tags        []string                   `json:"tags,omitempty"`
	OperationID string                     `json:"operationId"`
	Parameters  []openAPIParameter         `json:"parameters,omitempty"`
	RequestBody *openAPIBody               `json:"requestBody,omitempty"`
	Responses   map[string]openAPIResponse `json:"responses"`
	Security    []map[string][]string      `json:"security,omitempty"`
}

type openAPIParameter struct {
	Name     string             `json:"name"`
	In       string             `json:"in"`
	Required bool               `json:"required"`
	Schema   *jsonschema.Schema `json:"schema"`
}

type openAPIBody struct {
	Required bool                        `json:"required,omitempty"`
	Content  map[string]openAPIMediaType `json:"content"`
}

type openAPIMediaType struct {
	Schema *jsonschema.Schema `json:"schema"`
}

type openAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]openAPIMediaType `json:"content,omitempty"`
}

type openAPIComponents struct {
	SecuritySchemes map[string]openAPISecurityScheme `json:"securitySchemes"`
}

type openAPISecurityScheme struct {
	Type         string `json:"type"`
	Scheme       string `json:"scheme"`
	BearerFormat string `json:"bearerFormat"`
}

const bearerScheme = "bearer"

// routeParam matches chi parameters, with an optional regexp: {id} or
// {id:[0-9]+}.
var routeParam = regexp.MustCompile(`\{([^}:]+)(?::[^}]*)?\}`)

func (h *Handler) withDocs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		switch r.URL.Path {
		case DocsPath:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(h.docs)
		case DocsRedirectPath:
			http.Redirect(w, r, DocsPath, http.StatusMovedPermanently)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// buildDocs renders the API document of the registered routes once.
func (h *Handler) buildDocs() []byte {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	doc := openAPIDocument{
		OpenAPI: openAPIVersion,
		Info:    openAPIInfo{Title: h.name, Version: h.version},
		Paths:   make(map[string]map[string]openAPIOperation),
	}

	for _, route := range h.routes {
		path, params := openAPIPath(route.Pattern)
		desc := route.Action.Description()
		verb := strings.ToLower(route.Verb)

		op := openAPIOperation{
			Summary:     desc.Summary,
			Description: desc.Description,
			Tags:        desc.Tags,
			OperationID: verb + operationSuffix(route.Pattern),
			Parameters:  params,
			Responses: map[string]openAPIResponse{
				"default": {Description: "structured failure", Content: jsonContent(reflectSchema(&reflector, models.ErrorResponse{}))},
			},
		}

		if desc.Input != nil {
			op.RequestBody = &openAPIBody{Required: true, Content: jsonContent(reflectSchema(&reflector, desc.Input))}
		}
		if desc.Output != nil {
			op.Responses["200"] = openAPIResponse{Description: "OK", Content: jsonContent(reflectSchema(&reflector, desc.Output))}
		} else {
			op.Responses["200"] = openAPIResponse{Description: "OK"}
		}

		if claims, ok := h.authorization[models.RouteKey(route.Verb, route.Pattern)]; ok {
			op.Security = []map[string][]string{{bearerScheme: claims}}
			doc.Components = &openAPIComponents{SecuritySchemes: map[string]openAPISecurityScheme{
				bearerScheme: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			}}
		}

		if doc.Paths[path] == nil {
			doc.Paths[path] = make(map[string]openAPIOperation)
		}
		doc.Paths[path][verb] = op
	}

	data, err := json.Marshal(doc)
	if err != nil {
		h.logger.Err(err).Msg("error rendering api document")
		return []byte("{}")
	}
	return data
}

func reflectSchema(r *jsonschema.Reflector, v any) *jsonschema.Schema {
	schema := r.Reflect(v)
	schema.Version = ""
	return schema
}

func jsonContent(schema *jsonschema.Schema) map[string]openAPIMediaType {
	return map[string]openAPIMediaType{"application/json": {Schema: schema}}
}

// openAPIPath converts a chi pattern to an OpenAPI path and its parameters.
func openAPIPath(pattern string) (string, []openAPIParameter) {
	var params []openAPIParameter
	path := routeParam.ReplaceAllStringFunc(pattern, func(m string) string {
		name := routeParam.FindStringSubmatch(m)[1]
		params = append(params, openAPIParameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &jsonschema.Schema{Type: "string"},
		})
		return "{" + name + "}"
	})
	return path, params
}

func operationSuffix(pattern string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(pattern, func(r rune) bool {
		return r == '/' || r == '{' || r == '}' || r == '-' || r == '_' || r == ':'
	}) {
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}
