package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Doc Vault API",
        "description": "Document ingestion, classification and metadata service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Files", "description": "File upload and metadata management"},
        {"name": "Options", "description": "Classification option catalog"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/upload/": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload one or more files",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "files", "in": "formData", "type": "file", "required": true, "description": "Files to upload"},
                    {"name": "X-Owner-ID", "in": "header", "type": "string", "required": false, "description": "Owner identifier, defaults server-side"}
                ],
                "responses": {
                    "201": {"description": "Per-file outcomes plus the options used", "schema": {"$ref": "#/definitions/UploadResponse"}},
                    "400": {"description": "No files provided", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/files/": {
            "get": {
                "tags": ["Files"],
                "summary": "List files with optional filters",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Case-insensitive file name substring"},
                    {"name": "classification", "in": "query", "type": "string", "description": "Case-insensitive classification substring"}
                ],
                "responses": {
                    "200": {"description": "Matching files", "schema": {"$ref": "#/definitions/ListFilesResponse"}}
                }
            },
            "patch": {
                "tags": ["Files"],
                "summary": "Update a file's classification",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateClassificationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/UpdateClassificationResponse"}},
                    "400": {"description": "Missing id or classification", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Unknown record", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Files"],
                "summary": "Delete a file record and its stored bytes",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/DeleteFileRequest"}},
                    {"name": "id", "in": "query", "type": "string", "description": "Alternative to the body"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/DeleteFileResponse"}},
                    "404": {"description": "Unknown record", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/files/{id}/download-url": {
            "get": {
                "tags": ["Files"],
                "summary": "Get a signed download link",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Signed link", "schema": {"$ref": "#/definitions/DownloadURLResponse"}},
                    "404": {"description": "Unknown record", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/files/{id}/download": {
            "get": {
                "tags": ["Files"],
                "summary": "Download a file via signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "token", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File content"},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/files/export": {
            "get": {
                "tags": ["Files"],
                "summary": "Export the file listing as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "description": "Defaults to csv"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "classification", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered listing"}
                }
            }
        },
        "/classification-options/": {
            "get": {
                "tags": ["Options"],
                "summary": "List classification options, seeding defaults on first use",
                "responses": {
                    "200": {"description": "Option labels", "schema": {"$ref": "#/definitions/OptionsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "UploadedFile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "file_name": {"type": "string"},
                "file_path": {"type": "string"},
                "classification": {"type": "string"}
            }
        },
        "FailedFile": {
            "type": "object",
            "properties": {
                "file_name": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "UploadResponse": {
            "type": "object",
            "properties": {
                "uploaded_files": {"type": "array", "items": {"type": "object"}},
                "options_used": {"type": "array", "items": {"type": "string"}}
            }
        },
        "FileView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "file_name": {"type": "string"},
                "classification": {"type": "string"},
                "uploaded_at": {"type": "string", "format": "date-time"}
            }
        },
        "ListFilesResponse": {
            "type": "object",
            "properties": {
                "files": {"type": "array", "items": {"$ref": "#/definitions/FileView"}}
            }
        },
        "UpdateClassificationRequest": {
            "type": "object",
            "required": ["id", "classification"],
            "properties": {
                "id": {"type": "string"},
                "classification": {"type": "string"}
            }
        },
        "UpdateClassificationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "id": {"type": "string"},
                "classification": {"type": "string"}
            }
        },
        "DeleteFileRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"}
            }
        },
        "DeleteFileResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "OptionsResponse": {
            "type": "object",
            "properties": {
                "options": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DownloadURLResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "download_url": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/APIError"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
