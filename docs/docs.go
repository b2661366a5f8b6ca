// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/server/main.go`.
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
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/health": {"get": {"tags": ["系统"], "summary": "健康检查", "responses": {"200": {"description": "OK"}}}},
        "/api/auth/register": {"post": {"tags": ["用户"], "summary": "注册新用户", "responses": {"201": {"description": "Created"}}}},
        "/api/auth/login": {"post": {"tags": ["用户"], "summary": "用户名密码登录", "responses": {"200": {"description": "OK"}}}},
        "/api/users/me": {"get": {"tags": ["用户"], "summary": "当前用户", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}, "put": {"tags": ["用户"], "summary": "修改个人资料", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/api/users/{id}": {"get": {"tags": ["用户"], "summary": "用户资料", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/users/search": {"get": {"tags": ["用户"], "summary": "搜索用户", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "q", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/friends": {
            "get": {"tags": ["好友"], "summary": "好友列表（含连续天数）", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["好友"], "summary": "添加好友", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/friends/{friend_id}": {"delete": {"tags": ["好友"], "summary": "删除好友", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "friend_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/friends/{friend_id}/streak": {"get": {"tags": ["好友"], "summary": "连续天数", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "friend_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/snaps": {"post": {"tags": ["消息"], "summary": "发送 snap", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/snaps/received": {"get": {"tags": ["消息"], "summary": "收件箱", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/snaps/sent": {"get": {"tags": ["消息"], "summary": "发件箱", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/snaps/{id}/view": {"post": {"tags": ["消息"], "summary": "查看 snap", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories": {"post": {"tags": ["快拍"], "summary": "发布快拍", "security": [{"Bearer": []}], "responses": {"201": {"description": "Created"}}}},
        "/api/stories/feed": {"get": {"tags": ["快拍"], "summary": "推荐流", "security": [{"Bearer": []}], "parameters": [{"type": "integer", "name": "limit", "in": "query", "default": 20}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/mine": {"get": {"tags": ["快拍"], "summary": "我的快拍", "security": [{"Bearer": []}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}": {"delete": {"tags": ["快拍"], "summary": "删除快拍", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}/swipe": {"post": {"tags": ["快拍"], "summary": "滑动快拍", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}/view": {"post": {"tags": ["快拍"], "summary": "查看快拍", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}/like": {"post": {"tags": ["快拍"], "summary": "点赞", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}/unlike": {"post": {"tags": ["快拍"], "summary": "取消点赞", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/stories/{id}/liked": {"get": {"tags": ["快拍"], "summary": "是否已点赞", "security": [{"Bearer": []}], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Onyx API",
	Description:      "Stories, snaps, streaks and interest-ranked feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
