package projects

import "github.com/JaimeStill/mandate/pkg/openapi"

type spec struct {
	List          *openapi.Operation
	Find          *openapi.Operation
	Create        *openapi.Operation
	UpdateCatalog *openapi.Operation
	Delete        *openapi.Operation
}

// Spec describes the project routes.
var Spec = spec{
	List: &openapi.Operation{
		OperationID: "listProjects",
		Summary:     "List projects",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("customer_id", "string", "Filter by customer", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseSchema("Page of projects", openapi.PageOf("Project")),
		},
	},
	Find: &openapi.Operation{
		OperationID: "findProject",
		Summary:     "Find a project",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Project", "Project"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		OperationID: "createProject",
		Summary:     "Create a project",
		RequestBody: openapi.RequestBodyJSON("CreateProject", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created project", "Project"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	UpdateCatalog: &openapi.Operation{
		OperationID: "updateProjectCatalog",
		Summary:     "Replace the reference-data catalog",
		Description: "The request body is stored verbatim and must be valid JSON.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Description: "Any JSON value"}},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated project", "Project"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		OperationID: "deleteProject",
		Summary:     "Delete a project",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Project ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Project": {
			Type:     "object",
			Required: []string{"id", "customer_id", "name", "created_at", "updated_at"},
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"customer_id": {Type: "string"},
				"name":        {Type: "string"},
				"catalog":     {Description: "Reference data used when mapping rules"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
			},
		},
		"CreateProject": {
			Type:     "object",
			Required: []string{"customer_id", "name"},
			Properties: map[string]*openapi.Schema{
				"customer_id": {Type: "string"},
				"name":        {Type: "string"},
				"catalog":     {Description: "Optional reference data"},
			},
		},
	}
}
