package documents

import "github.com/JaimeStill/mandate/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Upload   *openapi.Operation
	Find     *openapi.Operation
	Download *openapi.Operation
	Delete   *openapi.Operation
}

var documentParam = openapi.PathParam("id", "Document ID")

// Spec describes the document routes.
var Spec = spec{
	List: &openapi.Operation{
		OperationID: "listDocuments",
		Summary:     "List the guideline documents of a project",
		Parameters: append(openapi.PageParams(),
			openapi.PathParam("projectId", "Project ID"),
			openapi.QueryParam("filename", "string", "Filter by filename (contains)", false),
			openapi.QueryParam("content_type", "string", "Filter by content type", false),
		),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseSchema("Page of documents", openapi.PageOf("Document")),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		OperationID: "uploadDocument",
		Summary:     "Upload a guidelines PDF",
		Description: "The content type is detected from the file bytes. Anything other than PDF is rejected.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("projectId", "Project ID")},
		RequestBody: openapi.RequestBodyFile("file", "Guidelines PDF"),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Stored document", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			415: openapi.ResponseRef("UnsupportedMediaType"),
		},
	},
	Find: &openapi.Operation{
		OperationID: "findDocument",
		Summary:     "Find a document",
		Parameters:  []*openapi.Parameter{documentParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document", "Document"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		OperationID: "downloadDocument",
		Summary:     "Download the stored PDF",
		Parameters:  []*openapi.Parameter{documentParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Document bytes", pdfContentType),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		OperationID: "deleteDocument",
		Summary:     "Delete a document and its stored blob",
		Parameters:  []*openapi.Parameter{documentParam},
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
		"Document": {
			Type:     "object",
			Required: []string{"id", "project_id", "filename", "content_type", "size_bytes", "storage_key", "uploaded_at"},
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"project_id":   {Type: "string", Format: "uuid"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string", Example: pdfContentType},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"page_count":   {Type: "integer", Description: "Null when the page count could not be read"},
				"storage_key":  {Type: "string"},
				"uploaded_at":  {Type: "string", Format: "date-time"},
			},
		},
	}
}
