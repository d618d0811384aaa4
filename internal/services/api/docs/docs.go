// Package docs holds the OpenAPI document for the certifica API
// Regenerate with: swag init --v3.1 -g cmd/certifica-api/main.go -o internal/services/api/docs --outputTypes go
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/certificate": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "List every certificate (admin)",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Certificate"}}}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "Submit a certificate",
                "description": "Multipart form: part request carries the JSON metadata, part file the document (pdf, png or jpeg).",
                "requestBody": {
                    "content": {
                        "multipart/form-data": {
                            "schema": {
                                "type": "object",
                                "required": ["request", "file"],
                                "properties": {
                                    "request": {"$ref": "#/components/schemas/domain.SubmitInput"},
                                    "file": {"type": "string", "format": "binary"}
                                }
                            }
                        }
                    }
                },
                "responses": {
                    "201": {"description": "Created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Certificate"}}}},
                    "400": {"description": "Invalid file or metadata, or duplicate title and category for the caller"},
                    "403": {"description": "Unauthenticated"},
                    "502": {"description": "Object store unavailable"}
                }
            }
        },
        "/certificate/my-documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "List the caller's certificates",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Certificate"}}}}}
                }
            }
        },
        "/certificate/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "Get a certificate",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Certificate"}}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "Delete a certificate and its stored file (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "204": {"description": "No Content"},
                    "502": {"description": "Object store unavailable"}
                }
            }
        },
        "/certificate/{id}/validate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "Approve or deny a certificate (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.ValidateInput"}}}},
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Certificate"}}}}
                }
            }
        },
        "/certificate/{id}/view-url": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Certificates"],
                "summary": "URL to view the stored file",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.ViewURL"}}}}
                }
            }
        },
        "/opportunity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "List opportunities",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/domain.Opportunity"}}}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "Create an opportunity",
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.CreateInput"}}}},
                "responses": {
                    "201": {"description": "Created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Opportunity"}}}}
                }
            }
        },
        "/opportunity/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "Get an opportunity",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Opportunity"}}}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "Update an opportunity (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.UpdateInput"}}}},
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Opportunity"}}}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "Delete an opportunity (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/opportunity/{id}/apply": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Opportunities"],
                "summary": "Apply the caller to an open opportunity",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Opportunity"}}}},
                    "409": {"description": "Opportunity is closed"}
                }
            }
        },
        "/meta/health": {
            "get": {"tags": ["Meta"], "summary": "Health check", "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.HealthResponse"}}}}}}
        },
        "/meta/ready": {
            "get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ReadyResponse"}}}}}}
        },
        "/meta/version": {
            "get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/version.BuildInfo"}}}}}}
        },
        "/meta/service": {
            "get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/http.ServiceResponse"}}}}}}
        }
    },
    "components": {
        "schemas": {
            "domain.Certificate": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "submittedBy": {"type": "string", "example": "ana@ufu.br"},
                    "title": {"type": "string", "example": "Monitoria de Calculo I"},
                    "category": {"type": "string", "enum": ["TEACHING", "RESEARCH", "EXTENSION", "MONITORING", "INTERNSHIP", "CULTURAL", "SPORTS", "STUDENT_REPRESENTATION", "OTHER"]},
                    "durationInHours": {"type": "integer", "example": 60},
                    "expirationDate": {"type": "string", "format": "date"},
                    "objectKey": {"type": "string"},
                    "fileUrl": {"type": "string"},
                    "originalFilename": {"type": "string"},
                    "fileType": {"type": "string", "example": "application/pdf"},
                    "sizeBytes": {"type": "integer"},
                    "checksumSha256": {"type": "string"},
                    "status": {"type": "string", "enum": ["PENDING", "APPROVED", "DENIED"]},
                    "rejectionReason": {"type": "string"},
                    "validatedBy": {"type": "string"},
                    "uploadTimestamp": {"type": "string", "format": "date-time"},
                    "validationTimestamp": {"type": "string", "format": "date-time"},
                    "processedAt": {"type": "string", "format": "date-time"},
                    "updatedAt": {"type": "string", "format": "date-time"}
                }
            },
            "domain.SubmitInput": {
                "type": "object",
                "required": ["title", "category", "durationInHours"],
                "properties": {
                    "title": {"type": "string"},
                    "category": {"type": "string"},
                    "durationInHours": {"type": "integer"},
                    "expirationDate": {"type": "string", "format": "date"}
                }
            },
            "domain.ValidateInput": {
                "type": "object",
                "required": ["status"],
                "properties": {
                    "status": {"type": "string", "enum": ["APPROVED", "DENIED"]},
                    "rejectionReason": {"type": "string"}
                }
            },
            "domain.ViewURL": {
                "type": "object",
                "properties": {"url": {"type": "string"}}
            },
            "domain.Opportunity": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "title": {"type": "string"},
                    "description": {"type": "string"},
                    "hours": {"type": "integer"},
                    "createdBy": {"type": "string"},
                    "status": {"type": "string", "enum": ["OPEN", "CLOSED"]},
                    "applicants": {"type": "array", "items": {"type": "string"}},
                    "createdAt": {"type": "string", "format": "date-time"},
                    "updatedAt": {"type": "string", "format": "date-time"}
                }
            },
            "domain.CreateInput": {
                "type": "object",
                "required": ["title", "hours"],
                "properties": {
                    "title": {"type": "string"},
                    "description": {"type": "string"},
                    "hours": {"type": "integer"}
                }
            },
            "domain.UpdateInput": {
                "type": "object",
                "properties": {
                    "title": {"type": "string"},
                    "description": {"type": "string"},
                    "hours": {"type": "integer"},
                    "status": {"type": "string", "enum": ["OPEN", "CLOSED"]}
                }
            },
            "http.HealthResponse": {
                "type": "object",
                "properties": {"ok": {"type": "boolean"}, "service": {"type": "string"}, "started": {"type": "string"}, "now": {"type": "string"}}
            },
            "http.ReadyResponse": {
                "type": "object",
                "properties": {
                    "status": {"type": "string"},
                    "now": {"type": "string"},
                    "checks": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}, "status": {"type": "string"}, "error": {"type": "string"}}}}
                }
            },
            "http.ServiceResponse": {
                "type": "object",
                "properties": {"name": {"type": "string"}, "started": {"type": "string"}, "uptime": {"type": "integer"}}
            },
            "version.BuildInfo": {
                "type": "object",
                "properties": {"service": {"type": "string"}, "version": {"type": "string"}, "commit": {"type": "string"}, "date": {"type": "string"}}
            }
        },
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Certifica API",
	Description:      "Certificate submission, validation and processing, plus extension opportunities",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
