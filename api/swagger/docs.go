// Package swagger registers the API description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
package swagger

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
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"description": "Login Credentials", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.LoginUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/home": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["home"],
                "summary": "Home page",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/settings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Get settings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Save settings",
                "parameters": [
                    {"description": "Settings", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/settings/test-connection": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["settings"],
                "summary": "Test database connection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["stock"],
                "summary": "Get products",
                "description": "Retrieves a paginated list of products. search matches SKU, name and brand.",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["stock"],
                "summary": "Create product",
                "parameters": [
                    {"description": "Product", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/sales": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["revenue"],
                "summary": "Get sales",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "name": "sku", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["revenue"],
                "summary": "Create sale",
                "parameters": [
                    {"description": "Sale", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SaleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Get activity logs",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["logs"],
                "summary": "Delete old logs",
                "parameters": [
                    {"type": "integer", "name": "older_than_days", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "data": {},
                "error": {"type": "string"},
                "redirect": {"type": "string"}
            }
        },
        "service.LoginUserRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "service.SettingsRequest": {
            "type": "object",
            "properties": {
                "connection_string": {"type": "string"},
                "gbp_to_pkr_rate": {"type": "string", "example": "350.0"},
                "platform_fees": {"type": "string", "example": "15,20,25"}
            }
        },
        "service.ProductRequest": {
            "type": "object",
            "properties": {
                "sku": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "string"},
                "color": {"type": "string"},
                "material": {"type": "string"},
                "brand": {"type": "string"},
                "base_cost_pkr": {"type": "string", "example": "3500"},
                "quantity": {"type": "string", "example": "4"},
                "quantity_sold": {"type": "string", "example": "0"},
                "date_added": {"type": "string", "example": "2026-01-31"}
            }
        },
        "service.SaleRequest": {
            "type": "object",
            "properties": {
                "transaction_id": {"type": "string"},
                "sku": {"type": "string"},
                "sale_price_gbp": {"type": "string", "example": "20"},
                "shipping_gbp": {"type": "string", "example": "2"},
                "platform_fee_percent": {"type": "string", "example": "15"},
                "sale_date": {"type": "string", "example": "2026-01-31"}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Ledger API",
	Description:      "Inventory and sales ledger for a PKR-sourced, GBP-sold reseller.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
