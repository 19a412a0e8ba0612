// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/movies": {
            "get": {
                "description": "Paginated list with optional genre, director, year and rating filters",
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "List movies",
                "parameters": [
                    {"type": "integer", "description": "Page number (>= 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "string", "description": "title, director, releaseYear, genre, rating or createdAt", "name": "sortBy", "in": "query"},
                    {"type": "string", "description": "asc or desc", "name": "sortOrder", "in": "query"},
                    {"type": "string", "description": "Genre contains (case-insensitive)", "name": "genre", "in": "query"},
                    {"type": "string", "description": "Director contains (case-insensitive)", "name": "director", "in": "query"},
                    {"type": "integer", "description": "Exact release year", "name": "year", "in": "query"},
                    {"type": "number", "description": "Minimum rating", "name": "minRating", "in": "query"},
                    {"type": "number", "description": "Maximum rating", "name": "maxRating", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Create a movie",
                "parameters": [
                    {"description": "Movie", "name": "movie", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.MoviePatch"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            }
        },
        "/movies/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Search movies by title",
                "parameters": [
                    {"type": "string", "description": "Title contains (case-insensitive)", "name": "search", "in": "query", "required": true},
                    {"type": "integer", "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            }
        },
        "/movies/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Collection statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            }
        },
        "/movies/genre/{genre}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Movies in a genre",
                "parameters": [
                    {"type": "string", "description": "Genre", "name": "genre", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            }
        },
        "/movies/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Get a movie",
                "parameters": [
                    {"type": "string", "description": "Movie ID (24 hex characters)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Partially update a movie",
                "parameters": [
                    {"type": "string", "description": "Movie ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "movie", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.MoviePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["movies"],
                "summary": "Delete a movie",
                "parameters": [
                    {"type": "string", "description": "Movie ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/service.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/service.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "model.MoviePatch": {
            "type": "object",
            "properties": {
                "director": {"type": "string"},
                "genre": {"type": "string"},
                "rating": {"type": "number"},
                "releaseYear": {"type": "integer"},
                "title": {"type": "string"}
            }
        },
        "query.Pagination": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "page": {"type": "integer"},
                "pages": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "service.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "errors": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"},
                "pagination": {"$ref": "#/definitions/query.Pagination"},
                "success": {"type": "boolean"}
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
	Title:            "Movies API",
	Description:      "Movie catalogue: list, search, statistics and CRUD.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
