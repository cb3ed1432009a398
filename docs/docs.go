// Package docs holds the OpenAPI document served at /swagger.
// It mirrors the handler annotations; regenerate with `swag init -g cmd/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "https://github.com/guttosm/neopulse",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/neopulse"
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
        "/api/v1/neos": {
            "get": {
                "description": "Returns the stored NEO aggregate for a fetch date (default: today, UTC). Expired records are not returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["neos"],
                "summary": "Get daily NEO aggregate",
                "parameters": [
                    {
                        "type": "string",
                        "example": "2024-01-01",
                        "description": "Fetch date in YYYY-MM-DD",
                        "name": "fetch_date",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/models.DailyAggregate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/get-neo-data": {
            "get": {
                "description": "Alias of /api/v1/neos read by the website.",
                "produces": ["application/json"],
                "tags": ["neos"],
                "summary": "Get daily NEO aggregate (legacy path)",
                "parameters": [
                    {
                        "type": "string",
                        "example": "2024-01-01",
                        "description": "Fetch date in YYYY-MM-DD",
                        "name": "fetch_date",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/models.DailyAggregate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready if the records store is reachable",
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
                "error": {"type": "string", "example": "parsing time \"2024/01/01\""},
                "message": {"type": "string", "example": "invalid fetch_date format, expected YYYY-MM-DD"},
                "timestamp": {"type": "string"}
            }
        },
        "models.CloseApproach": {
            "type": "object",
            "properties": {
                "close_approach_date": {"type": "string"},
                "close_approach_date_full": {"type": "string"},
                "epoch_date_close_approach": {"type": "integer"},
                "miss_distance": {"$ref": "#/definitions/models.MissDistance"},
                "orbiting_body": {"type": "string"},
                "relative_velocity": {"$ref": "#/definitions/models.RelativeVelocity"}
            }
        },
        "models.DailyAggregate": {
            "type": "object",
            "properties": {
                "expiry_timestamp": {"type": "integer"},
                "fetch_date": {"type": "string"},
                "neos": {"type": "array", "items": {"$ref": "#/definitions/models.NormalizedNeoEntity"}}
            }
        },
        "models.DiameterRange": {
            "type": "object",
            "properties": {
                "estimated_diameter_max": {"type": "number"},
                "estimated_diameter_min": {"type": "number"}
            }
        },
        "models.EstimatedDiameter": {
            "type": "object",
            "properties": {
                "feet": {"$ref": "#/definitions/models.DiameterRange"},
                "kilometers": {"$ref": "#/definitions/models.DiameterRange"},
                "meters": {"$ref": "#/definitions/models.DiameterRange"},
                "miles": {"$ref": "#/definitions/models.DiameterRange"}
            }
        },
        "models.MissDistance": {
            "type": "object",
            "properties": {
                "astronomical": {"type": "number"},
                "kilometers": {"type": "number"},
                "lunar": {"type": "number"},
                "miles": {"type": "number"}
            }
        },
        "models.NormalizedNeoEntity": {
            "type": "object",
            "properties": {
                "absolute_magnitude_h": {"type": "number"},
                "close_approach_data": {"type": "array", "items": {"$ref": "#/definitions/models.CloseApproach"}},
                "estimated_diameter": {"$ref": "#/definitions/models.EstimatedDiameter"},
                "is_potentially_hazardous_asteroid": {"type": "boolean"},
                "name": {"type": "string"},
                "nasa_jpl_url": {"type": "string"},
                "neo_id": {"type": "string"}
            }
        },
        "models.RelativeVelocity": {
            "type": "object",
            "properties": {
                "kilometers_per_hour": {"type": "number"},
                "kilometers_per_second": {"type": "number"},
                "miles_per_hour": {"type": "number"}
            }
        }
    },
    "tags": [
        {"description": "Daily near-earth object aggregates", "name": "neos"},
        {"description": "Liveness and readiness probes", "name": "health"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "neopulse API",
	Description:      "Near-earth object ingestion pipeline and daily aggregate read API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
