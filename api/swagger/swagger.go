package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Street Fare Schedule API",
        "description": "Recurring weekly schedules and monthly patterns for mobile vendors",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Vendor login"},
        {"name": "Schedule", "description": "Weekly recurring template"},
        {"name": "Patterns", "description": "Monthly pattern rules"},
        {"name": "Export", "description": "CSV, PDF and iCalendar feeds"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate vendor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get weekly schedule",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedule"],
                "summary": "Save weekly schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WeeklySchedule"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation violations listed in meta"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Clear the weekly schedule",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/days/{day}/toggle": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Toggle a day on or off",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "day", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/days/{day}/slots": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Append a slot to a day",
                "description": "The new slot starts one hour after the day's last slot and inherits its location.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "day", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/copy": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Copy a day's slots to other days",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyDayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/summary": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Summarise the weekly schedule",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns": {
            "get": {
                "tags": ["Patterns"],
                "summary": "List monthly patterns",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Patterns"],
                "summary": "Create a monthly pattern",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MonthlyPattern"}}
                ],
                "responses": {
                    "201": {"description": "Created; advisory conflicts in meta", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/{id}": {
            "put": {
                "tags": ["Patterns"],
                "summary": "Update a monthly pattern",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MonthlyPattern"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Patterns"],
                "summary": "Delete a monthly pattern",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/patterns/{id}/toggle": {
            "post": {
                "tags": ["Patterns"],
                "summary": "Toggle a pattern's active flag",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/{id}/extend": {
            "post": {
                "tags": ["Patterns"],
                "summary": "Extend a pattern's duration",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExtendRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/{id}/duplicate": {
            "post": {
                "tags": ["Patterns"],
                "summary": "Duplicate a pattern",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/{id}/occurrences": {
            "get": {
                "tags": ["Patterns"],
                "summary": "Expand a pattern into its dates",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/{id}/status": {
            "get": {
                "tags": ["Patterns"],
                "summary": "Compute a pattern's lifecycle status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/conflicts": {
            "post": {
                "tags": ["Patterns"],
                "summary": "Check a candidate pattern for conflicts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MonthlyPattern"}}
                ],
                "responses": {
                    "200": {"description": "Conflicting calendar days", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patterns/templates": {
            "get": {
                "tags": ["Patterns"],
                "summary": "List starter pattern templates",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/occurrences.csv": {
            "get": {
                "tags": ["Export"],
                "summary": "Download upcoming occurrences as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/export/occurrences.pdf": {
            "get": {
                "tags": ["Export"],
                "summary": "Download upcoming occurrences as PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/export/calendar.ics": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the iCalendar feed",
                "security": [{"BearerAuth": []}],
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "iCalendar file"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "TimeSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "start_time": {"type": "string", "example": "11:00"},
                "end_time": {"type": "string", "example": "14:00"},
                "location": {"type": "string"},
                "coordinates": {
                    "type": "object",
                    "properties": {
                        "lat": {"type": "number"},
                        "lng": {"type": "number"}
                    }
                }
            }
        },
        "DaySchedule": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "time_slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            }
        },
        "WeeklySchedule": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "repeat_weekly": {"type": "boolean"},
                "schedule": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/DaySchedule"}
                }
            }
        },
        "CopyDayRequest": {
            "type": "object",
            "properties": {
                "from": {"type": "string", "example": "monday"},
                "to": {"type": "array", "items": {"type": "string"}},
                "preset": {"type": "string", "enum": ["weekdays", "weekend", "all"]}
            },
            "required": ["from"]
        },
        "MonthlyPattern": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["specific", "relative"]},
                "day_of_month": {"type": "integer", "description": "1-31; 31 always means the last day of the month"},
                "relative_week": {"type": "string", "enum": ["first", "second", "third", "fourth", "last"]},
                "relative_day": {"type": "string", "example": "friday"},
                "start_date": {"type": "string", "format": "date-time"},
                "duration_months": {"type": "integer"},
                "time_slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}},
                "active": {"type": "boolean"}
            }
        },
        "ExtendRequest": {
            "type": "object",
            "properties": {
                "months": {"type": "integer", "minimum": 1, "maximum": 24}
            },
            "required": ["months"]
        },
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
