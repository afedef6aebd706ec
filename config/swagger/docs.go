// Package swagger registers the API description served at /swagger.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ping": {"get": {"tags": ["test"], "summary": "Endpoint just pings the server", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/health": {"get": {"tags": ["test"], "summary": "Liveness and current session counters", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/rooms": {"get": {"tags": ["rooms"], "summary": "Rooms held by this server", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/stats": {"get": {"tags": ["rooms"], "summary": "Totals over every stored room", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
        "/room/{roomId}/history": {"get": {"tags": ["rooms"], "summary": "Move log of a room", "produces": ["application/json"],
            "parameters": [{"type": "string", "description": "Room code", "name": "roomId", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
        "/room/{roomId}/live": {"get": {"tags": ["rooms"], "summary": "Live mirror of an in-progress room", "produces": ["application/json"],
            "parameters": [{"type": "string", "description": "Room code", "name": "roomId", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with an identity verified by the external provider", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"description": "Identity", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserProfile"}}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}},
        "/api/auth/logout": {"delete": {"tags": ["auth"], "summary": "Close the session", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/auth/me": {"get": {"tags": ["auth"], "summary": "Profile of the logged in user", "produces": ["application/json"],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserProfile"}}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}},
        "/api/users/{firebaseUid}": {"get": {"tags": ["users"], "summary": "Public profile of a user", "produces": ["application/json"],
            "parameters": [{"type": "string", "description": "Identity provider uid", "name": "firebaseUid", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserProfile"}}, "404": {"description": "Not Found"}}}},
        "/api/users/{userId}/username": {"put": {"tags": ["users"], "summary": "Change a username", "consumes": ["application/json"], "produces": ["application/json"],
            "parameters": [{"type": "string", "description": "User id", "name": "userId", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/user/setup": {"post": {"tags": ["users"], "summary": "Complete the profile of a new user", "consumes": ["application/json"], "produces": ["application/json"],
            "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/api/update_win": {"post": {"tags": ["stats"], "summary": "Record a won game", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/update_lost": {"post": {"tags": ["stats"], "summary": "Record a lost game", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/leaderboard": {"get": {"tags": ["stats"], "summary": "Ranking of the players with at least one finished game", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "controllers.LoginRequest": {"type": "object", "properties": {
            "firebaseUid": {"type": "string"}, "email": {"type": "string"}, "displayName": {"type": "string"}, "photoURL": {"type": "string"}}},
        "controllers.UserProfile": {"type": "object", "properties": {
            "userId": {"type": "string"}, "email": {"type": "string"}, "username": {"type": "string"}, "photoUrl": {"type": "string"},
            "gamesPlayed": {"type": "integer"}, "gamesWon": {"type": "integer"}, "gamesLost": {"type": "integer"}, "needsSetup": {"type": "boolean"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Morris API",
	Description:      "Gin-Gonic server for the Three Men's Morris game",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
