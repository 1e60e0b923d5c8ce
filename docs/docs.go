// Package docs holds the swagger document of the API, kept in sync with the handler annotations by swag init
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
        "/ping": {
            "get": {"tags": ["Support"], "summary": "Ping the API", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/users": {
            "post": {"tags": ["Users"], "summary": "Create a user", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get a user", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/competitions": {
            "get": {"tags": ["Competitions"], "summary": "Get all competitions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"Bearer": []}], "tags": ["Competitions"], "summary": "Create a competition", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/competitions/{id}": {
            "get": {"tags": ["Competitions"], "summary": "Get a competition", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}},
            "put": {"tags": ["Competitions"], "summary": "Update a competition", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}},
            "delete": {"tags": ["Competitions"], "summary": "Delete a competition", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}, "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/competitions/{id}/submissions": {
            "get": {"tags": ["Competitions"], "summary": "Get the submissions of a competition", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "skip", "in": "query"}, {"type": "integer", "name": "take", "in": "query"}, {"type": "string", "name": "order", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/competitions/{id}/export": {
            "get": {"tags": ["Competitions"], "summary": "Export the ranking of a competition", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/competitions/{id}/ws": {
            "get": {"tags": ["Competitions"], "summary": "Watch the ratings of a competition", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/submissions": {
            "post": {"security": [{"Bearer": []}], "tags": ["Submissions"], "summary": "Create a submission", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/submissions/{id}": {
            "get": {"tags": ["Submissions"], "summary": "Get a submission", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}},
            "put": {"tags": ["Submissions"], "summary": "Update a submission", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}},
            "delete": {"tags": ["Submissions"], "summary": "Delete a submission", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        },
        "/submissions/{id}/rating": {
            "post": {"security": [{"Bearer": []}], "tags": ["Submissions"], "summary": "Rate a submission", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.ErrorBody"}}}}
        }
    },
    "definitions": {
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Arena API",
	Description:      "Competitions, submissions and ratings",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
