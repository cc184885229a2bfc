// Package docs registers the swagger spec served at /swagger/*any. The JSON
// below is hand-maintained from the @Summary/@Router annotations on the
// controllers under internal/adapter/in/http; regenerate by hand whenever a
// route's annotations change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "opampcommander API",
        "description": "Control plane for OpAMP-managed agent fleets: registration, agent inventory, and config rollout.",
        "version": "1.0"
    },
    "basePath": "/",
    "paths": {
        "/api/v1/ping": {
            "get": {
                "tags": ["Health"],
                "summary": "Ping",
                "description": "Ping the server to check if it is alive.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/readyz": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness Check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness Check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/agents": {
            "get": {
                "tags": ["Agent"],
                "summary": "List agents",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "org", "in": "query", "required": true, "type": "string"},
                    {"name": "limit", "in": "query", "required": false, "type": "integer"},
                    {"name": "continue", "in": "query", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/agents/{id}": {
            "get": {
                "tags": ["Agent"],
                "summary": "Get an agent",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/agents/{id}/request-effective-config": {
            "post": {
                "tags": ["Agent"],
                "summary": "Request effective config",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/api/v1/agents/{id}/config-requests/{trackingId}": {
            "get": {
                "tags": ["Agent"],
                "summary": "Get config request",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "trackingId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/opamp-config/deployments": {
            "post": {
                "tags": ["Deployment"],
                "summary": "Create deployment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "org", "in": "query", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/opamp-config/push": {
            "post": {
                "tags": ["Deployment"],
                "summary": "Push ad-hoc config",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "org", "in": "query", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/opamp-config/deployments/{id}/status": {
            "get": {
                "tags": ["Deployment"],
                "summary": "Deployment status",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/opamp-config/deployments/{id}/rollback": {
            "post": {
                "tags": ["Deployment"],
                "summary": "Rollback deployment",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/opamp-config/compare": {
            "post": {
                "tags": ["Deployment"],
                "summary": "Compare YAML documents",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/registration-tokens": {
            "post": {
                "tags": ["Registration"],
                "summary": "Mint registration token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/api/v1/gateways": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register gateway",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "Authorization", "in": "header", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/v1/opamp": {
            "get": {
                "tags": ["OpAMP"],
                "summary": "OpAMP WebSocket endpoint",
                "parameters": [
                    {"name": "Authorization", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            },
            "post": {
                "tags": ["OpAMP"],
                "summary": "OpAMP HTTP long-poll endpoint",
                "consumes": ["application/x-protobuf"],
                "produces": ["application/x-protobuf"],
                "parameters": [
                    {"name": "Authorization", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger information that gin-swagger serves.
//
//nolint:gochecknoglobals
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "opampcommander API",
	Description:      "Control plane for OpAMP-managed agent fleets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() { //nolint:gochecknoinits
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
