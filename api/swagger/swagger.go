package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Proffy API",
        "description": "Tutor class listings, availability search and connection counting.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Classes", "description": "Tutor listings and weekly availability"},
        {"name": "Connections", "description": "Student to tutor contacts"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "Search classes by availability",
                "description": "Returns the classes for the subject with a weekly slot covering the instant. Slots are half-open, so a slot ending at the instant does not match.",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string", "required": true},
                    {"name": "week_day", "in": "query", "type": "integer", "required": true},
                    {"name": "time", "in": "query", "type": "string", "required": true, "description": "HH:MM"}
                ],
                "responses": {
                    "200": {
                        "description": "Matching classes",
                        "headers": {"X-Cache": {"type": "string", "description": "HIT or MISS"}},
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/ClassWithTutor"}}
                    },
                    "400": {"description": "Missing filters or malformed time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Register a tutor with one class and its weekly schedule",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation or creation failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/schedule": {
            "get": {
                "tags": ["Classes"],
                "summary": "List the weekly slots of a class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Slots", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/connections": {
            "get": {
                "tags": ["Connections"],
                "summary": "Count recorded connections",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Total", "schema": {"$ref": "#/definitions/ConnectionTotal"}}
                }
            },
            "post": {
                "tags": ["Connections"],
                "summary": "Record a contact with a tutor",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateConnectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown tutor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ClassWithTutor": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "subject": {"type": "string"},
                "cost": {"type": "number"},
                "name": {"type": "string"},
                "avatar": {"type": "string"},
                "whatsapp": {"type": "string"},
                "bio": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ScheduleItem": {
            "type": "object",
            "required": ["from", "to"],
            "properties": {
                "week_day": {"type": "integer"},
                "from": {"type": "string", "example": "08:00"},
                "to": {"type": "string", "example": "12:00"}
            }
        },
        "CreateClassRequest": {
            "type": "object",
            "required": ["name", "subject"],
            "properties": {
                "name": {"type": "string"},
                "avatar": {"type": "string"},
                "whatsapp": {"type": "string"},
                "bio": {"type": "string"},
                "subject": {"type": "string"},
                "cost": {"type": "number", "minimum": 0},
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleItem"}}
            }
        },
        "CreateConnectionRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {
                "user_id": {"type": "string"},
                "subject": {"type": "string"}
            }
        },
        "ConnectionTotal": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
