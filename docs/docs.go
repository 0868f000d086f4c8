// Package docs mendaftarkan dokumen OpenAPI ke swag; dibaca oleh /swagger/doc.json.
package docs

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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Register a company or intern account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Email taken"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login with email and password", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Inactive or unverified"}}}},
        "/auth/login-google": {"post": {"tags": ["auth"], "summary": "Login with a Google ID token", "responses": {"200": {"description": "OK"}}}},
        "/auth/refresh-token": {"post": {"tags": ["auth"], "summary": "Rotate the refresh token", "responses": {"200": {"description": "OK"}}}},
        "/auth/verify-email": {"post": {"tags": ["auth"], "summary": "Confirm an email verification token", "responses": {"200": {"description": "OK"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Blacklist the access token and revoke the refresh token", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "security": [{"BearerAuth": []}], "summary": "Current user with profile", "responses": {"200": {"description": "OK"}}}},
        "/companies/me": {
            "get": {"tags": ["companies"], "security": [{"BearerAuth": []}], "summary": "Company profile", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["companies"], "security": [{"BearerAuth": []}], "summary": "Update company profile", "responses": {"200": {"description": "OK"}}}
        },
        "/companies/me/logo": {"post": {"tags": ["companies"], "security": [{"BearerAuth": []}], "summary": "Upload a logo (converted to WebP)", "responses": {"200": {"description": "OK"}, "503": {"description": "Storage not configured"}}}},
        "/interns/me": {
            "get": {"tags": ["interns"], "security": [{"BearerAuth": []}], "summary": "Intern profile", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["interns"], "security": [{"BearerAuth": []}], "summary": "Update intern profile", "responses": {"200": {"description": "OK"}}}
        },
        "/referrals/me": {"get": {"tags": ["interns"], "security": [{"BearerAuth": []}], "summary": "Referral code and referred interns", "responses": {"200": {"description": "OK"}}}},
        "/referrals/validate/{code}": {"get": {"tags": ["interns"], "summary": "Check a referral code", "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/opportunities": {
            "get": {"tags": ["opportunities"], "summary": "List active internships", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["opportunities"], "security": [{"BearerAuth": []}], "summary": "Create an internship", "responses": {"201": {"description": "Created"}}}
        },
        "/opportunities/{id}": {
            "get": {"tags": ["opportunities"], "summary": "Internship detail", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["opportunities"], "security": [{"BearerAuth": []}], "summary": "Update an internship", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["opportunities"], "security": [{"BearerAuth": []}], "summary": "Delete an internship, keeping team membership and conversations", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/opportunities/{id}/form": {
            "get": {"tags": ["forms"], "summary": "Application form of an internship", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["forms"], "security": [{"BearerAuth": []}], "summary": "Ensure the internship has a form", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{formId}/questions": {
            "get": {"tags": ["forms"], "summary": "Ordered sections and questions", "parameters": [{"name": "formId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["forms"], "security": [{"BearerAuth": []}], "summary": "Upsert sections and questions", "parameters": [{"name": "formId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid section or question"}}}
        },
        "/question-bank": {"get": {"tags": ["forms"], "security": [{"BearerAuth": []}], "summary": "Reusable questions", "responses": {"200": {"description": "OK"}}}},
        "/opportunities/{id}/apply": {"post": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "Start an application with a draft response", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Already submitted"}}}},
        "/applications/{id}/submit": {"post": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "Submit an application", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/applications/{id}/decision": {"post": {"tags": ["applications"], "security": [{"BearerAuth": []}], "summary": "Accept or reject an application", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/search/candidates": {"post": {"tags": ["search"], "security": [{"BearerAuth": []}], "summary": "Natural-language candidate search", "responses": {"200": {"description": "OK"}}}},
        "/conversations": {
            "get": {"tags": ["messaging"], "security": [{"BearerAuth": []}], "summary": "Conversations with latest message", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["messaging"], "security": [{"BearerAuth": []}], "summary": "Open a conversation", "responses": {"200": {"description": "OK"}, "403": {"description": "Not eligible"}}}
        },
        "/interview/voice/stt": {"post": {"tags": ["interview"], "summary": "Transcribe an interview answer", "consumes": ["multipart/form-data"], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid audio"}, "503": {"description": "AI not configured"}}}},
        "/interview/voice/tts": {"post": {"tags": ["interview"], "summary": "Read a question aloud", "produces": ["audio/mpeg"], "responses": {"200": {"description": "OK"}}}},
        "/interview/feedback": {"post": {"tags": ["interview"], "summary": "Feedback on an interview answer", "responses": {"200": {"description": "OK"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "InternLink API",
	Description:      "Internship marketplace: companies publish opportunities with custom forms, interns apply and practise interviews.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
