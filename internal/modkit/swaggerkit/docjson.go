package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"certifica/internal/platform/config"
	"certifica/internal/platform/logger"

	"github.com/swaggo/swag/v2"
)

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

var (
	mutMu    sync.RWMutex
	mutators []SpecMutator
)

// docReader is a seam so tests can inject documents
var docReader = func() string {
	doc, err := swag.ReadDoc(InstanceName)
	if err != nil {
		logger.Named("swagger").Warn().Err(err).Msg("api doc not registered")
		return `{"openapi":"3.0.3","info":{"title":"certifica","version":"dev"},"paths":{}}`
	}
	return doc
}

// Register adds a spec mutator; modules call it while being constructed
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mutMu.Lock()
	mutators = append(mutators, m)
	mutMu.Unlock()
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		spec, err := buildSpec(docReader())
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

func buildSpec(raw string) (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, err
	}

	ensureServers(spec, "/api/v1")

	cfg := config.New().Prefix("CORE_API_")
	if v := cfg.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + v
			}
		}
	}

	schemas := components(spec, "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema
	}
	schemes := components(spec, "securitySchemes")
	if _, ok := schemes["bearerAuth"]; !ok {
		schemes["bearerAuth"] = map[string]any{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
	}

	addDefaultResponse(spec, http.StatusInternalServerError, 0, "internal error")
	addDefaultResponse(spec, http.StatusBadRequest, 6, "title must not be blank")
	addDefaultResponse(spec, http.StatusForbidden, 4, "authentication required")

	mutMu.RLock()
	defer mutMu.RUnlock()
	for _, m := range mutators {
		m(spec)
	}
	return spec, nil
}

// ensureServers lifts swagger 2 to OAS3, pins 3.0.3 for the UI and sets servers
func ensureServers(spec map[string]any, url string) {
	if _, ok := spec["swagger"]; ok {
		delete(spec, "swagger")
		spec["openapi"] = "3.0.3"
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func components(spec map[string]any, kind string) map[string]any {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	m, ok := comps[kind].(map[string]any)
	if !ok {
		m = map[string]any{}
		comps[kind] = m
	}
	return m
}

// errorSchema mirrors the runtime envelope for failures
var errorSchema = map[string]any{
	"type":        "object",
	"description": "Standard error response",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// addDefaultResponse injects an error response on every operation lacking one for status
func addDefaultResponse(spec map[string]any, statusCode, code int, msg string) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	status, text := strconv.Itoa(statusCode), http.StatusText(statusCode)
	resp := map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": statusCode,
					"status":      text,
					"code":        code,
					"error":       msg,
				},
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			rs, ok := op["responses"].(map[string]any)
			if !ok {
				rs = map[string]any{}
				op["responses"] = rs
			}
			if _, exists := rs[status]; !exists {
				rs[status] = resp
			}
		}
	}
}
