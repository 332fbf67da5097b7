// Package identity contains the generated swagger specification for the
// identity service. Regenerate with `swag init` after changing handler
// annotations.
package identity

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Adoptly Platform Team",
            "url": "https://github.com/adoptly/adoptly"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/check": {
            "get": {
                "description": "Reports whether the caller holds a live session. Always answers 200; an expired access token is flagged with requiresRefresh.",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Introspect the session cookies",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Verifies credentials, mints an access/refresh token pair, and sets the session cookies.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "400": {
                        "description": "Malformed request",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "401": {
                        "description": "Invalid email or password",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "description": "Revokes the presented refresh token server-side and clears the session cookies.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log out everywhere this session exists",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/http.refreshRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/api/auth/refresh": {
            "post": {
                "description": "Retires the presented refresh token and mints a fresh token pair with up-to-date claims. The token is taken from the request body, falling back to the refreshToken cookie.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Rotate the refresh token",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/http.refreshRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "401": {
                        "description": "Invalid or expired refresh token",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "description": "Registers a new adopter or shelter admin and signs them in immediately.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Create an account",
                "parameters": [
                    {
                        "description": "New account",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/http.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "400": {
                        "description": "Invalid registration data",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "409": {
                        "description": "Email already registered",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/api/auth/revoke-all": {
            "post": {
                "description": "Kills all refresh tokens the authenticated user holds, then clears this browser's cookies.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Revoke every session for the calling user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/internal/users/{id}": {
            "get": {
                "security": [{"InternalKey": []}],
                "description": "Returns the current profile for a user ID. Service-to-service only.",
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Fetch a user profile (internal)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/internal/users/{id}/revoke-tokens": {
            "post": {
                "security": [{"InternalKey": []}],
                "description": "Bulk revocation for password resets and account compromise. Service-to-service only.",
                "produces": ["application/json"],
                "tags": ["Internal"],
                "summary": "Revoke every refresh token a user holds (internal)",
                "parameters": [
                    {
                        "type": "string",
                        "description": "User ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/httpx.Envelope"}
                    }
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Always answers 200 while the process is up.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.healthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Answers 200 only when the database is reachable.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/http.healthResponse"}
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {"$ref": "#/definitions/http.healthResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "http.healthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "http.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.refreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "http.registerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "userType": {"type": "string"}
            }
        },
        "httpx.Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {}
            }
        }
    },
    "securityDefinitions": {
        "InternalKey": {
            "type": "apiKey",
            "name": "X-Internal-API-Key",
            "in": "header",
            "description": "Shared secret for service-to-service calls."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Adoptly Identity Service API",
	Description:      "Central authentication for the Adoptly platform: email/password login, JWT access tokens, rotating refresh tokens and cross-subdomain session cookies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
