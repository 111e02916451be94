// Package docs holds the OpenAPI document served at /api/docs
// regenerate with: swag init -g cmd/rephraser-api/main.go -o internal/services/api/docs --v3.1
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/denylist": {
            "get": {
                "tags": ["Denylist"],
                "summary": "Active denylist terms",
                "description": "Terms are lowercased, deduplicated and ordered longest first",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/denylist.ListResponse"}}}
                    }
                }
            },
            "post": {
                "tags": ["Denylist"],
                "summary": "Replace the denylist",
                "description": "One term per line, an empty body clears the list",
                "requestBody": {
                    "required": true,
                    "content": {"text/plain": {"schema": {"type": "string"}, "example": "shut up\nidiot\n"}}
                },
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/denylist.ReplaceResponse"}}}
                    }
                }
            }
        },
        "/moderation/moderate": {
            "post": {
                "tags": ["Moderation"],
                "summary": "Moderate a block of text",
                "description": "Splits the text into sentences and revises every sentence containing a denylist term",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/moderation.ModerateInput"}}}
                },
                "responses": {
                    "200": {
                        "description": "changes, empty when nothing matched",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/moderation.ModerateResponse"}}}
                    }
                }
            }
        },
        "/moderation/status": {
            "get": {
                "tags": ["Moderation"],
                "summary": "Generator availability and loaded term count",
                "responses": {
                    "200": {
                        "description": "always 200",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/moderation.StatusResponse"}}}
                    }
                }
            }
        },
        "/samples": {
            "get": {
                "tags": ["Samples"],
                "summary": "Demo inputs for the moderation UI",
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {"application/json": {"schema": {"type": "array", "items": {"type": "object"}}}}
                    }
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "Most recent moderation reports",
                "description": "Only mounted when postgres is configured",
                "parameters": [
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 200, "default": 50}}
                ],
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/reports.Summary"}}}}
                    }
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "One stored report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}
                ],
                "responses": {
                    "200": {
                        "description": "ok",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/moderation.Report"}}}
                    },
                    "404": {
                        "description": "not found",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}}
    },
    "components": {
        "schemas": {
            "denylist.ListResponse": {
                "type": "object",
                "properties": {
                    "terms": {"type": "array", "items": {"type": "string"}, "example": ["shut up", "idiot"]},
                    "count": {"type": "integer", "example": 2}
                }
            },
            "denylist.ReplaceResponse": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean", "example": true},
                    "count": {"type": "integer", "example": 2}
                }
            },
            "moderation.ModerateInput": {
                "type": "object",
                "required": ["text"],
                "properties": {
                    "text": {"type": "string", "example": "You are stupid. Have a nice day."}
                }
            },
            "moderation.ChangeRecord": {
                "type": "object",
                "properties": {
                    "lineNumber": {"type": "integer", "example": 1},
                    "original": {"type": "string", "example": "You are stupid."},
                    "originalHighlighted": {"type": "string", "example": "You are <mark>stupid</mark>."},
                    "revised": {"type": "string", "example": "You are [MODERATED]."},
                    "terms": {"type": "array", "items": {"type": "string"}, "example": ["stupid"]},
                    "method": {"type": "string", "enum": ["rewrite", "mask"]}
                }
            },
            "moderation.ModerateResponse": {
                "type": "object",
                "properties": {
                    "changes": {"type": "array", "items": {"$ref": "#/components/schemas/moderation.ChangeRecord"}}
                }
            },
            "moderation.StatusResponse": {
                "type": "object",
                "properties": {
                    "available": {"type": "boolean", "example": false},
                    "terms_loaded": {"type": "integer", "example": 12}
                }
            },
            "moderation.Report": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "original": {"type": "string"},
                    "changes": {"type": "array", "items": {"$ref": "#/components/schemas/moderation.ChangeRecord"}},
                    "timestamp": {"type": "string", "example": "2024-01-02T03:04:05.006Z"}
                }
            },
            "reports.Summary": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "created_at": {"type": "string", "format": "date-time"},
                    "changes": {"type": "integer", "example": 1}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "Rephraser API",
	Description:      "Denylist management and sentence level text moderation",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
