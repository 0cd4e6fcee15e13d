// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init` after changing handler annotations.
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
        "/physicians": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Physicians"],
                "summary": "List physicians",
                "parameters": [
                    {"type": "integer", "name": "specialty_id", "in": "query"},
                    {"type": "integer", "name": "location_id", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Physicians"],
                "summary": "Create physician",
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CreatePhysicianDTO"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Specialty not found"}}
            }
        },
        "/physicians/{id}/availability": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Availability"],
                "summary": "Physician availability for a date",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "date", "in": "query", "required": true},
                    {"type": "integer", "name": "location_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "422": {"description": "Physician not at location"}}
            }
        },
        "/appointments": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Appointments"],
                "summary": "List appointments",
                "parameters": [
                    {"type": "integer", "name": "physician_id", "in": "query"},
                    {"type": "integer", "name": "location_id", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "date_from", "in": "query"},
                    {"type": "string", "name": "date_to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Appointments"],
                "summary": "Reserve a slot",
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ReserveSlotDTO"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid time format"}, "409": {"description": "Slot already booked"}, "422": {"description": "Physician not at location"}}
            }
        },
        "/appointments/{id}/alternatives": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Availability"],
                "summary": "Alternative slots for an appointment",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "location_id", "in": "query"},
                    {"type": "integer", "default": 14, "name": "window_days", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid window"}, "404": {"description": "Not Found"}}
            }
        },
        "/appointments/{id}/reschedule": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Appointments"],
                "summary": "Reschedule appointment",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.RescheduleDTO"}}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Slot already booked"}}
            }
        },
        "/copay": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["Appointments"],
                "summary": "Copay estimate",
                "parameters": [{"type": "string", "name": "appointment_type", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No rate configured"}}
            }
        }
    },
    "definitions": {
        "domain.CreatePhysicianDTO": {
            "type": "object",
            "required": ["email", "first_name", "last_name", "phone", "specialty_id"],
            "properties": {
                "bio": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "specialty_id": {"type": "integer"}
            }
        },
        "domain.ReserveSlotDTO": {
            "type": "object",
            "required": ["appointment_type", "date", "end_time", "location_id", "physician_id", "start_time"],
            "properties": {
                "appointment_type": {"type": "string"},
                "date": {"type": "string", "example": "2026-10-19"},
                "end_time": {"type": "string", "example": "09:30"},
                "location_id": {"type": "integer"},
                "notes": {"type": "string"},
                "patient_id": {"type": "integer"},
                "physician_id": {"type": "integer"},
                "start_time": {"type": "string", "example": "09:00"}
            }
        },
        "domain.RescheduleDTO": {
            "type": "object",
            "required": ["date", "end_time", "start_time"],
            "properties": {
                "date": {"type": "string"},
                "end_time": {"type": "string"},
                "location_id": {"type": "integer"},
                "start_time": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "medsched API",
	Description:      "Physician availability, alternative slots and appointment booking across clinic locations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
