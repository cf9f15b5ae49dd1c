// Package docs registers the OpenAPI description of the cashbook API with
// swag so http-swagger can serve it.
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
        "/sync": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Reload every ledger from the store",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Ledger"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/notices": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Drain user-visible notices",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/services.Notice"}}}
                }
            }
        },
        "/ledgers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "List ledgers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Ledger"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Create ledger",
                "parameters": [
                    {"description": "Ledger name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ledgerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Ledger"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Get ledger",
                "parameters": [{"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ledger"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Rename ledger",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"description": "New name and optional creation time", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ledgerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ledger"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Ledgers"],
                "summary": "Delete ledger and its entries",
                "parameters": [{"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Ledgers"],
                "summary": "Ledger summary",
                "parameters": [{"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/order": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Entries"],
                "summary": "Reorder entries locally",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"description": "Every entry id in the new order", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.idsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ledger"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/entries": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Entries"],
                "summary": "Add entry",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"description": "Entry", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.entryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Entry"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/entries/bulk-delete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Entries"],
                "summary": "Delete several entries",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"description": "Entry ids", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.idsRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/entries/{entryId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Entries"],
                "summary": "Update entry",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"type": "string", "description": "Entry ID", "name": "entryId", "in": "path", "required": true},
                    {"description": "Entry", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.entryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Entry"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Entries"],
                "summary": "Delete entry",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"type": "string", "description": "Entry ID", "name": "entryId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/entries/{entryId}/move": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Entries"],
                "summary": "Swap entry with a neighbour",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"type": "string", "description": "Entry ID", "name": "entryId", "in": "path", "required": true},
                    {"description": "-1 up, 1 down", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.moveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Ledger"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/ledgers/{ledgerId}/entries/{entryId}/attachments/{attachmentId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Entries"],
                "summary": "Remove attachment",
                "parameters": [
                    {"type": "string", "description": "Ledger ID", "name": "ledgerId", "in": "path", "required": true},
                    {"type": "string", "description": "Entry ID", "name": "entryId", "in": "path", "required": true},
                    {"type": "string", "description": "Attachment ID", "name": "attachmentId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.attachmentRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "fileName": {"type": "string"},
                "data": {"type": "string", "description": "base64 or data URL"}
            }
        },
        "handlers.entryRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["in", "out"]},
                "dateTime": {"type": "string", "format": "date-time"},
                "details": {"type": "string"},
                "amount": {"type": "string", "example": "12.50"},
                "category": {"type": "string"},
                "mode": {"type": "string"},
                "attachments": {"type": "array", "items": {"$ref": "#/definitions/handlers.attachmentRequest"}}
            }
        },
        "handlers.idsRequest": {
            "type": "object",
            "properties": {"ids": {"type": "array", "items": {"type": "string"}}}
        },
        "handlers.ledgerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "handlers.moveRequest": {
            "type": "object",
            "properties": {"delta": {"type": "integer", "enum": [-1, 1]}}
        },
        "models.Attachment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "entryId": {"type": "string"},
                "filePath": {"type": "string"},
                "fileName": {"type": "string"},
                "fileType": {"type": "string"},
                "url": {"type": "string"},
                "checksum": {"type": "string"}
            }
        },
        "models.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "ledgerId": {"type": "string"},
                "type": {"type": "string", "enum": ["in", "out"]},
                "dateTime": {"type": "string", "format": "date-time"},
                "details": {"type": "string"},
                "amount": {"type": "string", "example": "12.5"},
                "category": {"type": "string"},
                "mode": {"type": "string"},
                "attachments": {"type": "array", "items": {"$ref": "#/definitions/models.Attachment"}}
            }
        },
        "models.Ledger": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/models.Entry"}}
            }
        },
        "services.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "services.Notice": {
            "type": "object",
            "properties": {
                "time": {"type": "string", "format": "date-time"},
                "level": {"type": "string", "enum": ["warning", "error"]},
                "op": {"type": "string"},
                "entityId": {"type": "string"},
                "message": {"type": "string"}
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
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Cashbook API",
	Description:      "Ledgers, entries and attachments of a personal cashbook",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
