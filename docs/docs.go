// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Staff login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/auth/google": {
            "post": {
                "tags": ["auth"],
                "summary": "Staff login with a Google ID token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GoogleLoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/vehicles": {
            "get": {
                "tags": ["vehicles"],
                "summary": "List vehicles",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "categoryId", "in": "query"},
                    {"type": "boolean", "name": "available", "in": "query"},
                    {"type": "string", "name": "brand", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/vehicles/{id}/availability": {
            "get": {
                "tags": ["vehicles"],
                "summary": "Check whether a vehicle can be booked for a period",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "start", "in": "query", "required": true},
                    {"type": "string", "name": "end", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Reservations not loaded", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/vehicles/{id}/calendar": {
            "get": {
                "tags": ["vehicles"],
                "summary": "Month view of a vehicle with disabled days",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "month", "in": "query", "required": true},
                    {"type": "string", "name": "selStart", "in": "query"},
                    {"type": "string", "name": "selEnd", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Reservations not loaded", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reservations": {
            "get": {
                "tags": ["reservations"],
                "summary": "List reservations",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "automobileId", "in": "query"},
                    {"type": "integer", "name": "clientId", "in": "query"},
                    {"type": "integer", "name": "categoryId", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "tags": ["reservations"],
                "summary": "Book a vehicle for a client",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateReservationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/reservations/{id}/status": {
            "put": {
                "tags": ["reservations"],
                "summary": "Confirm, cancel or complete a reservation",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StatusUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Fleet and reservation figures",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "mess": {"type": "string"},
                "data": {},
                "pagination": {"$ref": "#/definitions/response.Pagination"}
            }
        },
        "response.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "dto.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.GoogleLoginInput": {
            "type": "object",
            "required": ["idToken"],
            "properties": {"idToken": {"type": "string"}}
        },
        "dto.CreateReservationRequest": {
            "type": "object",
            "required": ["automobileId", "clientId", "startDate", "endDate"],
            "properties": {
                "automobileId": {"type": "integer"},
                "clientId": {"type": "integer"},
                "startDate": {"type": "string", "example": "2024-06-01"},
                "endDate": {"type": "string", "example": "2024-06-05"},
                "status": {"type": "string", "enum": ["PENDING", "CONFIRMED"]},
                "paid": {"type": "boolean"},
                "notes": {"type": "string"}
            }
        },
        "dto.StatusUpdateRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["CONFIRMED", "CANCELLED", "COMPLETED"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Locations Guard API",
	Description:      "Back office of a car rental agency.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
