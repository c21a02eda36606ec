package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Study Planner API",
        "description": "Weekly study schedule generation for students",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Preferences", "description": "Planning profile"},
        {"name": "FixedSchedule", "description": "Classes and recurring commitments"},
        {"name": "Workload", "description": "Assignments and exams"},
        {"name": "Planner", "description": "Window computation and schedule generation"},
        {"name": "Schedules", "description": "Persisted weekly plans"},
        {"name": "Exports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Expired or revoked token"}
                }
            }
        },
        "/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get planning preferences",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Update planning preferences",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid time format"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["FixedSchedule"],
                "summary": "List weekly classes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["FixedSchedule"],
                "summary": "Create weekly class",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Overlap detected"}
                }
            }
        },
        "/blocks": {
            "get": {
                "tags": ["FixedSchedule"],
                "summary": "List recurring blocks",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["FixedSchedule"],
                "summary": "Create recurring block",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Overlap detected"}
                }
            }
        },
        "/tasks/assignments": {
            "get": {
                "tags": ["Workload"],
                "summary": "List assignments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Workload"],
                "summary": "Create assignment",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/tasks/exams": {
            "get": {
                "tags": ["Workload"],
                "summary": "List exams",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Workload"],
                "summary": "Create exam",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/planner/windows": {
            "post": {
                "tags": ["Planner"],
                "summary": "Preview availability windows",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/planner/generate": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate weekly schedule",
                "responses": {
                    "200": {"description": "Schedule with warnings"},
                    "409": {"description": "Overlap detected"},
                    "422": {"description": "Infeasible workload"}
                }
            }
        },
        "/planner/validate": {
            "post": {
                "tags": ["Planner"],
                "summary": "Validate schedule blocks",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Save schedule",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Overlap detected"}
                }
            }
        },
        "/schedules/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue schedule export",
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download export",
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid token"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
