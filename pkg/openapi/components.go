package openapi

import "maps"

func errorResponse(description string) *Response {
	return ResponseJSON(description, "Error")
}

// NewComponents creates Components with the shared error schema and responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":           errorResponse("Invalid request"),
			"NotFound":             errorResponse("Resource not found"),
			"Conflict":             errorResponse("Resource conflict"),
			"PayloadTooLarge":      errorResponse("Request body exceeds the upload limit"),
			"UnsupportedMediaType": errorResponse("Unsupported content type"),
			"BadGateway":           errorResponse("Upstream agent or extraction failure"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

// PageParams returns the query parameters accepted by paginated listings.
func PageParams() []*Parameter {
	return []*Parameter{
		QueryParam("page", "integer", "Page number (1-indexed)", false),
		QueryParam("page_size", "integer", "Results per page", false),
		QueryParam("search", "string", "Search query", false),
		QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending. Example: name,-created_at", false),
	}
}

// PageOf returns the schema of one page of the named component schema.
func PageOf(name string) *Schema {
	return &Schema{
		Type:     "object",
		Required: []string{"data", "total", "page", "page_size", "total_pages"},
		Properties: map[string]*Schema{
			"data":        ArrayOf(name),
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}
