package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Slugtistics API",
        "description": "Course catalog, grade history and degree planning API.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Courses",
            "description": "Published course snapshot"
        },
        {
            "name": "Grades",
            "description": "Historical grade distributions"
        },
        {
            "name": "Ratings",
            "description": "Instructor ratings"
        },
        {
            "name": "Majors",
            "description": "Major requirements and recommendations"
        },
        {
            "name": "Admin",
            "description": "Refresh control"
        }
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Courses grouped by GE category",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "503": {
                        "description": "No snapshot published yet",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses/all": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Filtered course list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "ge",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "GE category"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Subject prefix, e.g. CSE"
                    },
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Class status"
                    },
                    {
                        "name": "instructor",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Instructor name fragment"
                    },
                    {
                        "name": "q",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Search code or title"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page number"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Page size (max 500)"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses/ge": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "GE categories present in the snapshot",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/courses/export": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Export the filtered course list",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "csv or pdf"
                    },
                    {
                        "name": "ge",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "GE category"
                    },
                    {
                        "name": "subject",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Subject prefix, e.g. CSE"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/courses/{enrollNum}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Course offering by enrollment number",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "enrollNum",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Enrollment number"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/prereq/{code}": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Parsed prerequisites of a course",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code, e.g. CSE101"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/last-update": {
            "get": {
                "tags": [
                    "Courses"
                ],
                "summary": "Time of the last completed refresh",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/instructor-ratings": {
            "get": {
                "tags": [
                    "Ratings"
                ],
                "summary": "Detailed rating profile of an instructor",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "instructor",
                        "in": "query",
                        "type": "string",
                        "required": true,
                        "description": "Instructor full name"
                    },
                    {
                        "name": "course",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Course code"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid name",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No profile",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Ratings service failed",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/classes": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Course codes with grade history",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{code}/instructors": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Instructors who taught a course",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Term"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{code}/quarters": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Terms a course was offered",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code"
                    },
                    {
                        "name": "instructor",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Instructor"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{code}/distribution": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Summed grade distribution and GPA",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code"
                    },
                    {
                        "name": "term",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Term"
                    },
                    {
                        "name": "instructor",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Instructor"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No history",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{code}/class-info": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Every history row of a course",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{code}/gpa": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "Resolved GPA of a course",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Course code"
                    },
                    {
                        "name": "instructor",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Instructor"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/majors": {
            "get": {
                "tags": [
                    "Majors"
                ],
                "summary": "Available majors",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/majors/recommendations": {
            "get": {
                "tags": [
                    "Majors"
                ],
                "summary": "Major classes whose prerequisites are satisfied",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "classes",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Comma separated classes taken"
                    },
                    {
                        "name": "major",
                        "in": "query",
                        "type": "string",
                        "required": false,
                        "description": "Major filename"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/majors/{major}/courses": {
            "get": {
                "tags": [
                    "Majors"
                ],
                "summary": "Every course code named by a major",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "major",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Major filename"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/majors/{major}/groups": {
            "get": {
                "tags": [
                    "Majors"
                ],
                "summary": "Requirement groups of a major",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "major",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Major filename"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/majors/{major}/progress": {
            "post": {
                "tags": [
                    "Majors"
                ],
                "summary": "Mark a transcript against a major",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "major",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Major filename"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ProgressRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/admin/refresh": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Queue a course refresh",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "202": {
                        "description": "Queued",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Refresh already queued",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/refresh/runs": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "Latest refresh runs",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer",
                        "required": false,
                        "description": "Number of runs"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "Process counters summary",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/majors/{major}": {
            "put": {
                "tags": [
                    "Admin"
                ],
                "summary": "Create or replace a major document",
                "produces": [
                    "application/json"
                ],
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "name": "major",
                        "in": "path",
                        "type": "string",
                        "required": true,
                        "description": "Major filename"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/Major"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "ProgressRequest": {
            "type": "object",
            "required": [
                "classes_taken"
            ],
            "properties": {
                "classes_taken": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "Major": {
            "type": "object",
            "properties": {
                "groups": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {
                                "type": "string"
                            },
                            "count": {
                                "type": "integer"
                            },
                            "classes": {
                                "type": "array",
                                "items": {}
                            }
                        }
                    }
                },
                "needed_classes": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
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
