// Package docs registers the OpenAPI description served under /swagger.
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
        "/api/v1/logs": {
            "get": {
                "description": "Filter history by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List automation history",
                "parameters": [
                    {"type": "string", "example": "2025-03-01", "description": "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-03-07", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["TURN_ON", "TURN_OFF", "CONTROL_ERROR", "FETCH_ERROR", "MANUAL_START", "MANUAL_STOP", "LIGHT_TOGGLE"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/run": {
            "post": {
                "description": "Runs one automation check now. A run overlapping one in progress is skipped and reported as such.",
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Run automation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Decision"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/light": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sauna"],
                "summary": "Toggle light",
                "responses": {
                    "200": {"description": "status, heater", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/reservations": {
            "get": {
                "description": "Reservations starting within the next 7 days, sorted by start.",
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Upcoming reservations",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Reservation"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/start": {
            "post": {
                "description": "Manual start. The automation marker is not touched.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["sauna"],
                "summary": "Start heater",
                "parameters": [
                    {"description": "Target temperature", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.StartRequest"}}
                ],
                "responses": {
                    "200": {"description": "status, target, heater", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/status": {
            "get": {
                "description": "Live heater status merged with the automation marker. When the heater cannot be reached the body keeps the same shape with null live fields.",
                "produces": ["application/json"],
                "tags": ["sauna"],
                "summary": "Heater status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusReport"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.StatusReport"}}
                }
            }
        },
        "/stop": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sauna"],
                "summary": "Stop heater",
                "responses": {
                    "200": {"description": "status, heater", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handlers.StartRequest": {
            "type": "object",
            "properties": {
                "temperature": {"description": "Target temperature in Celsius, 40..110. Omitted or unparsable uses the configured default.", "type": "integer", "example": 92}
            }
        },
        "models.Decision": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "error": {"type": "string"},
                "evaluated_at": {"type": "string"},
                "executed": {"type": "boolean"},
                "reason": {"type": "string"},
                "reservation": {"$ref": "#/definitions/models.Reservation"}
            }
        },
        "models.Reservation": {
            "type": "object",
            "properties": {
                "end": {"type": "string"},
                "start": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.StatusReport": {
            "type": "object",
            "properties": {
                "automatic": {"type": "boolean"},
                "error": {"type": "string"},
                "is_on": {"type": "boolean"},
                "mode": {"type": "string"},
                "status_code": {"type": "integer"},
                "temperature": {"type": "number"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo is registered with swag and read by the /swagger handler.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sauna Automation API",
	Description:      "Calendar-driven sauna heater automation: status, manual overrides, run trigger and history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
