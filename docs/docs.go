// Package docs registers the OpenAPI description served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/webhook": {
            "post": {
                "description": "Records participant feedback and emails the event certificate once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhook"],
                "summary": "Submit feedback form",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SubmissionRequest"}}
                ],
                "responses": {
                    "200": {"description": "success or already_sent", "schema": {"$ref": "#/definitions/controllers.IssuanceResponse"}},
                    "400": {"description": "validation_failure"},
                    "404": {"description": "not_found"},
                    "409": {"description": "in_progress"},
                    "422": {"description": "template_not_found or render_failure"},
                    "429": {"description": "rate_limited"},
                    "500": {"description": "persistence_failure"},
                    "502": {"description": "delivery_failure"}
                }
            }
        },
        "/mail-webhook": {
            "post": {
                "tags": ["webhook"],
                "summary": "Receive mail provider events",
                "responses": {"200": {"description": "received"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/test-db": {
            "get": {
                "tags": ["health"],
                "summary": "Database connectivity probe",
                "responses": {"200": {"description": "ok"}, "503": {"description": "service_unavailable"}}
            }
        },
        "/admin/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "List events",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "paginated events"}, "401": {"description": "unauthorized"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Create an event",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/domain.Event"}}
                ],
                "responses": {"201": {"description": "created"}, "400": {"description": "bad_request"}, "409": {"description": "conflict"}}
            }
        },
        "/admin/events/{eventID}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Update an event's certificate layout",
                "parameters": [
                    {"type": "string", "name": "eventID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "updated"}, "404": {"description": "not_found"}}
            }
        }
    },
    "definitions": {
        "controllers.SubmissionRequest": {
            "type": "object",
            "required": ["name", "email", "event"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "event": {"type": "string"},
                "rating": {"type": "integer"},
                "feedback": {"type": "string"},
                "enjoyed_most": {"type": "string"},
                "suggestions": {"type": "string"}
            }
        },
        "controllers.IssuanceResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "already_sent"]},
                "message": {"type": "string"},
                "participant_id": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "domain.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "event_name": {"type": "string"},
                "cert_template_name": {"type": "string"},
                "name_x": {"type": "number"},
                "name_y": {"type": "number"},
                "text_y_position": {"type": "number"},
                "font_size": {"type": "number"},
                "font_style": {"type": "string"},
                "text_alignment": {"type": "string", "enum": ["left", "center"]},
                "uppercase_name": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CertBot API",
	Description:      "Feedback-gated certificate issuance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
