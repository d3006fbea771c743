// Package docs registers the OpenAPI route summary served under /swagger.
// It is maintained by hand and lists paths and status codes only, without
// request or response schemas. Keep it in step with the routes in
// cmd/api/main.go.
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
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/home": {"get": {"tags": ["catalog"], "summary": "Landing screen", "responses": {"200": {"description": "OK"}}}},
        "/themes": {"get": {"tags": ["catalog"], "summary": "List themes", "responses": {"200": {"description": "OK"}}}},
        "/topics": {"get": {"tags": ["catalog"], "summary": "List topics", "responses": {"200": {"description": "OK"}}}},
        "/users/me": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Get My Profile", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "patch": {"security": [{"ApiKeyAuth": []}], "tags": ["users"], "summary": "Update My Profile", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/users/me/theme": {"put": {"tags": ["users"], "summary": "Select Theme", "responses": {"200": {"description": "OK"}}}},
        "/quiz/sessions": {"post": {"tags": ["quiz"], "summary": "Start a quiz session", "responses": {"201": {"description": "Created"}}}},
        "/quiz/sessions/{id}": {"get": {"tags": ["quiz"], "summary": "Get a quiz session", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/quiz/sessions/{id}/answer": {"post": {"tags": ["quiz"], "summary": "Answer the current question", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/quiz/sessions/{id}/hint": {"post": {"tags": ["quiz"], "summary": "Toggle the hint", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/quiz/sessions/{id}/advance": {"post": {"tags": ["quiz"], "summary": "Move to the next question", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "503": {"description": "Progress could not be saved"}}}},
        "/auth/google/login": {"get": {"tags": ["auth"], "summary": "Initiate Google OAuth2 login", "responses": {"307": {"description": "Redirect to Google"}}}},
        "/auth/google/callback": {"get": {"tags": ["auth"], "summary": "Google OAuth2 callback", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh JWT tokens", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["auth"], "summary": "Logout user", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Maths Quest API",
	Description:      "Themed maths quizzes for children.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
