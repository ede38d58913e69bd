// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/sessions": {
            "get": {
                "description": "Lists all sessions newest first with their transcript counts",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/current": {
            "get": {
                "description": "Returns the user and session the recorder writes into",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/current/room": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Set the room of the current session",
                "parameters": [
                    {"description": "Room name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.UpdateRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}": {
            "get": {
                "description": "Returns a session with its transcripts in spoken order",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Get session details",
                "parameters": [
                    {"type": "string", "description": "Session ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/transcripts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List transcripts of a session",
                "parameters": [
                    {"type": "string", "description": "Session ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/analyze": {
            "get": {
                "description": "Returns the cached summary or generates one. Failures of the completion service yield a placeholder summary.",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Summarize a session",
                "parameters": [
                    {"type": "string", "description": "Session ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/export": {
            "post": {
                "description": "Uploads the session and its transcripts as JSON and returns a presigned download URL",
                "produces": ["application/json"],
                "tags": ["Exports"],
                "summary": "Export a session",
                "parameters": [
                    {"type": "string", "description": "Session ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/exports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Exports"],
                "summary": "List exports of a session",
                "parameters": [
                    {"type": "string", "description": "Session ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/transcripts": {
            "post": {
                "description": "Stores one fragment in the current session, creating the session on first use",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Transcripts"],
                "summary": "Record a transcript fragment",
                "parameters": [
                    {"description": "Fragment", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transcript.RecordTranscriptRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/webhooks/livekit": {
            "post": {
                "description": "Receives webhook events from LiveKit. room_started bootstraps the session and records the room name.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Webhooks"],
                "summary": "LiveKit Webhook",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/common.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {},
                "info": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "common.SuccessResponse": {
            "type": "object",
            "properties": {
                "code": {},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "session.UpdateRoomRequest": {
            "type": "object",
            "required": ["room_name"],
            "properties": {
                "room_name": {"type": "string", "maxLength": 255, "minLength": 1}
            }
        },
        "transcript.RecordTranscriptRequest": {
            "type": "object",
            "required": ["is_final", "text"],
            "properties": {
                "confidence": {"type": "number", "maximum": 1, "minimum": 0},
                "duration_ms": {"type": "integer", "minimum": 0},
                "is_final": {"type": "boolean"},
                "language": {"type": "string", "maxLength": 10},
                "metadata": {"type": "object", "additionalProperties": true},
                "text": {"type": "string", "maxLength": 10000}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Voice Transcripts API",
	Description:      "Recorded voice sessions, their transcripts and cached summaries",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
