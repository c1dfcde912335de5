// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
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
        "/api/penny-stocks/gainers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["penny-stocks"],
                "summary": "Top penny stock gainers",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of results", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GainersResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/penny-stocks/gainers/alternative": {
            "get": {
                "produces": ["application/json"],
                "tags": ["penny-stocks"],
                "summary": "Alternative gainers source",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AlternativeResponse"}}
                }
            }
        },
        "/api/ai-recommendations": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["recommendations"],
                "summary": "Generate AI penny stock recommendations",
                "parameters": [
                    {"description": "Recommendation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecommendationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RecommendationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/chat": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["chat"],
                "summary": "Stream a chat completion",
                "parameters": [
                    {"description": "Chat request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "Streamed text fragments", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.PennyStock": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "company_name": {"type": "string"},
                "current_price": {"type": "number"},
                "previous_close": {"type": "number"},
                "change": {"type": "number"},
                "change_percent": {"type": "number"},
                "volume": {"type": "integer"},
                "market_cap": {"type": "number"},
                "sector": {"type": "string"}
            }
        },
        "dto.GainersResponse": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "total_stocks": {"type": "integer"},
                "stocks": {"type": "array", "items": {"$ref": "#/definitions/models.PennyStock"}}
            }
        },
        "dto.AlternativeResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "endpoint": {"type": "string"}
            }
        },
        "models.Recommendation": {
            "type": "object",
            "properties": {
                "symbol": {"type": "string"},
                "company_name": {"type": "string"},
                "reasoning": {"type": "string"},
                "sector": {"type": "string"},
                "risk_level": {"type": "string"},
                "potential_catalyst": {"type": "string"}
            }
        },
        "dto.RecommendationRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string"},
                "max_count": {"type": "integer"},
                "model": {"type": "string"},
                "api_key": {"type": "string"}
            }
        },
        "dto.RecommendationResponse": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "total_count": {"type": "integer"},
                "prompt": {"type": "string"},
                "model": {"type": "string"},
                "recommendations": {"type": "array", "items": {"$ref": "#/definitions/models.Recommendation"}},
                "raw_response": {"type": "string"},
                "parse_error": {"type": "boolean"}
            }
        },
        "dto.ChatRequest": {
            "type": "object",
            "required": ["developer_message", "user_message"],
            "properties": {
                "developer_message": {"type": "string"},
                "user_message": {"type": "string"},
                "model": {"type": "string"},
                "api_key": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "pennypulse API",
	Description:      "Penny stock gainers screener with AI recommendations and chat relay.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
