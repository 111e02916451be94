package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	perr "rephraser/internal/platform/errors"
	docs "rephraser/internal/services/api/docs"
)

const oasVersion = "3.0.3"

// Patch adjusts the parsed spec before it is served
type Patch func(spec map[string]any)

var patches []Patch

var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds p to every served spec, call it while modules are built
func Register(p Patch) {
	if p != nil {
		patches = append(patches, p)
	}
}

func serveDocJSON(o Options) http.HandlerFunc {
	base := []Patch{
		normalizeVersion,
		withServer(o.basePath()),
		withTitleSuffix(o.TitleSuffix),
		withErrorSchema,
		withDefaultErrors,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		for _, p := range base {
			p(spec)
		}
		for _, p := range patches {
			p(spec)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// normalizeVersion serves 3.0.3, the newest version the bundled ui renders
func normalizeVersion(spec map[string]any) {
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = oasVersion
	}
}

func withServer(url string) Patch {
	return func(spec map[string]any) {
		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": url}}
		}
	}
}

func withTitleSuffix(suffix string) Patch {
	return func(spec map[string]any) {
		info, _ := spec["info"].(map[string]any)
		if title, ok := info["title"].(string); ok && suffix != "" {
			info["title"] = title + " " + suffix
		}
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func prop(typ string) map[string]any { return map[string]any{"type": typ} }

// withErrorSchema declares the error envelope the api writes
func withErrorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"field":       prop("string"),
			"request_id":  prop("string"),
		},
		"required": []any{"status_code", "status"},
	}
}

type errExample struct {
	status int
	code   perr.ErrorCode
	msg    string
	field  string
}

var defaultErrors = []errExample{
	{http.StatusBadRequest, perr.ErrorCodeValidation, "text is a required field", "text"},
	{http.StatusInternalServerError, perr.ErrorCodeUnknown, "internal error", ""},
}

func (e errExample) response() map[string]any {
	ex := map[string]any{
		"status_code": e.status,
		"status":      http.StatusText(e.status),
		"code":        e.code,
		"error":       e.msg,
		"request_id":  "host/abc-000001",
	}
	if e.field != "" {
		ex["field"] = e.field
	}
	return map[string]any{
		"description": http.StatusText(e.status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": ex,
			},
		},
	}
}

// withDefaultErrors documents 400 and 500 on every operation that does not already
func withDefaultErrors(spec map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			o, ok := op.(map[string]any)
			if !ok {
				continue
			}
			resps := child(o, "responses")
			for _, e := range defaultErrors {
				key := strconv.Itoa(e.status)
				if _, ok := resps[key]; !ok {
					resps[key] = e.response()
				}
			}
		}
	}
}
