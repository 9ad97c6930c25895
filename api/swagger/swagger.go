package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Barangay Hub Portal API",
        "description": "Municipal e-government portal backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Auth", "description": "Signup, login and session management"},
        {"name": "Dashboard", "description": "Admin aggregation overview"},
        {"name": "Documents", "description": "Document requests and certificate generation"},
        {"name": "Ambulance", "description": "Ambulance transport bookings"},
        {"name": "Court", "description": "Covered court reservations"},
        {"name": "Reports", "description": "Infrastructure issue reports"},
        {"name": "Proposals", "description": "Community project proposals"},
        {"name": "Residents", "description": "Admin resident registry"},
        {"name": "Announcements", "description": "Public announcement feed"},
        {"name": "Homepage", "description": "Public landing content"},
        {"name": "Activity", "description": "Admin activity trail"},
        {"name": "Export", "description": "Admin CSV extracts"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Admin dashboard overview",
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer", "description": "Window in days (7, 30, 90, 365)"}
                ],
                "responses": {
                    "200": {"description": "Chart-ready aggregate"}
                }
            }
        },
        "/documents": {
            "post": {
                "tags": ["Documents"],
                "summary": "File a document request",
                "responses": {
                    "201": {"description": "Created"}
                }
            },
            "get": {
                "tags": ["Documents"],
                "summary": "List document requests",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/documents/generate": {
            "post": {
                "tags": ["Documents"],
                "summary": "Generate the certificate PDF for a completed request",
                "responses": {
                    "200": {"description": "Filename and download token"}
                }
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
