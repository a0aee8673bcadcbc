// Package docs registers the OpenAPI document served under /swagger.
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
        "/health": {"get": {"tags": ["System"], "summary": "Service health", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/api/v1/ads": {"get": {"tags": ["Ads"], "summary": "List published ads", "produces": ["application/json"], "parameters": [
            {"type": "string", "name": "search", "in": "query"},
            {"type": "string", "name": "category", "in": "query"},
            {"type": "string", "name": "district", "in": "query"},
            {"type": "string", "name": "priceRange", "in": "query"},
            {"type": "string", "name": "sortBy", "in": "query"},
            {"type": "integer", "name": "page", "in": "query"}
        ], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "503": {"description": "Service Unavailable"}}}},
        "/api/v1/ads/all": {"get": {"tags": ["Ads"], "summary": "Every published ad", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/ads/recommended": {"get": {"tags": ["Ads"], "summary": "Recommended ads", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/ads/{slug}": {"get": {"tags": ["Ads"], "summary": "Ad detail by slug or numeric ID", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/v1/ads/{slug}/qrcode": {"get": {"tags": ["Ads"], "summary": "QR code linking to the public ad page", "produces": ["image/png"], "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/ads/{id}/{counter}": {"post": {"tags": ["Ads"], "summary": "Record a view, favorite or inquiry", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "counter", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "429": {"description": "Too Many Requests"}}}},
        "/api/v1/categories": {"get": {"tags": ["Catalog"], "summary": "Categories with published ad counts", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/districts": {"get": {"tags": ["Catalog"], "summary": "Districts with published ad counts", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/map": {"get": {"tags": ["Map"], "summary": "Marker and cluster plan for the filtered ads", "parameters": [{"type": "integer", "name": "zoom", "in": "query"}, {"type": "integer", "name": "selected", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/search": {"get": {"tags": ["Ads"], "summary": "Full-text ad search", "parameters": [{"type": "string", "name": "q", "in": "query", "required": true}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}},
        "/api/v1/client-errors": {"post": {"tags": ["System"], "summary": "Report a browser error", "consumes": ["application/json"], "responses": {"202": {"description": "Accepted"}}}},
        "/api/v1/admin/auth/login": {"post": {"tags": ["Admin Auth"], "summary": "Admin login", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/v1/admin/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Admin Auth"], "summary": "Current admin account", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/ads": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "List ads including drafts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "Create ad", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/admin/ads/export.xlsx": {"get": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "Export ads as an Excel workbook", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/ads/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "Get ad", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "Update ad", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Admin Ads"], "summary": "Delete ad and its images", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/admin/ads/{id}/images": {"post": {"security": [{"BearerAuth": []}], "tags": ["Admin Images"], "summary": "Upload ad images", "consumes": ["multipart/form-data"], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "file", "name": "files", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}}}},
        "/api/v1/admin/ads/{id}/images/order": {"put": {"security": [{"BearerAuth": []}], "tags": ["Admin Images"], "summary": "Set the display order of an ad's images", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/ads/{id}/images/{imageID}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["Admin Images"], "summary": "Delete an ad image", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "imageID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/categories": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Admin Categories"], "summary": "Create category", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/categories/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Categories"], "summary": "Get category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Admin Categories"], "summary": "Update category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Admin Categories"], "summary": "Delete category", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/districts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Districts"], "summary": "List districts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Admin Districts"], "summary": "Create district", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/admin/districts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin Districts"], "summary": "Get district", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Admin Districts"], "summary": "Update district", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Admin Districts"], "summary": "Delete district", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the JWT.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AdBoard API",
	Description:      "Outdoor advertising listings: public catalogue, map and search, and the admin back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
