package comparisons

import (
	"github.com/JaimeStill/mandate/pkg/openapi"
	"github.com/JaimeStill/mandate/pkg/reconcile"
)

type spec struct {
	Submit *openapi.Operation
	Find   *openapi.Operation
	Table  *openapi.Operation
}

var jobParam = openapi.PathParam("jobId", "Comparison job ID")

func boolQuery(name, description string) *openapi.Parameter {
	p := openapi.QueryParam(name, "boolean", description, false)
	p.Schema.Default = false
	return p
}

// Spec describes the comparison job routes: submit answers 202 with a job id,
// the job is polled until it is completed or failed, and the table of a
// completed job is rendered with display toggles.
var Spec = spec{
	Submit: &openapi.Operation{
		OperationID: "submitComparison",
		Summary:     "Submit an ordered list of versions for comparison",
		Description: "Answers before any comparison runs. Poll the returned job until its status is completed or failed.",
		RequestBody: openapi.RequestBodyJSON("SubmitComparison", true),
		Responses: map[int]*openapi.Response{
			202: openapi.ResponseJSON("Job accepted", "Submission"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		OperationID: "findComparison",
		Summary:     "Poll a comparison job",
		Description: "The result is present once status is completed. A failed job carries an error message.",
		Parameters:  []*openapi.Parameter{jobParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Comparison job", "ComparisonJob"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Table: &openapi.Operation{
		OperationID: "comparisonTable",
		Summary:     "Render the reconciled table of a completed job",
		Description: "The latest version is always pinned after the older columns.",
		Parameters: []*openapi.Parameter{
			jobParam,
			{
				Name:        "sort",
				In:          "query",
				Description: "Row ordering",
				Schema: &openapi.Schema{
					Type:    "string",
					Default: string(reconcile.SortAlpha),
					Enum: []any{
						string(reconcile.SortAlpha),
						string(reconcile.SortMostChanged),
						string(reconcile.SortLatestChange),
					},
				},
			},
			boolQuery("changed_only", "Drop rows whose non-baseline cells are all unchanged"),
			boolQuery("hide_unchanged", "Hide unchanged lines"),
			boolQuery("hide_added", "Hide added lines"),
			boolQuery("hide_removed", "Hide removed lines"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Table view", "TableView"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	two := 2
	statuses := []any{
		string(StatusPending),
		string(StatusProcessing),
		string(StatusCompleted),
		string(StatusFailed),
	}
	cellStatuses := []any{
		string(reconcile.StatusUnchanged),
		string(reconcile.StatusModified),
		string(reconcile.StatusAdded),
		string(reconcile.StatusRemoved),
		string(reconcile.StatusNotPresent),
	}
	tags := []any{
		string(reconcile.TagUnchanged),
		string(reconcile.TagAdded),
		string(reconcile.TagRemoved),
	}
	cells := &openapi.Schema{
		Type:                 "object",
		Description:          "Cells keyed by version name",
		AdditionalProperties: openapi.SchemaRef("Cell"),
	}

	return map[string]*openapi.Schema{
		"VersionPayload": {
			Type:     "object",
			Required: []string{"versionName", "raw_rules"},
			Properties: map[string]*openapi.Schema{
				"version":     {Type: "integer"},
				"versionName": {Type: "string"},
				"createdAt":   {Type: "string", Format: "date-time"},
				"raw_rules":   {Description: "Raw rules of the version, as JSON"},
			},
		},
		"SubmitComparison": {
			Type:     "object",
			Required: []string{"projectId", "customerId", "versions"},
			Properties: map[string]*openapi.Schema{
				"projectId":  {Type: "string"},
				"customerId": {Type: "string"},
				"versions": {
					Type:        "array",
					Description: "Versions oldest first. Version names must be unique.",
					Items:       openapi.SchemaRef("VersionPayload"),
					MinItems:    &two,
				},
			},
		},
		"Submission": {
			Type:     "object",
			Required: []string{"jobId", "status"},
			Properties: map[string]*openapi.Schema{
				"jobId":  {Type: "string", Format: "uuid"},
				"status": {Type: "string", Enum: statuses},
			},
		},
		"VersionInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"version":     {Type: "integer"},
				"versionName": {Type: "string"},
				"createdAt":   {Type: "string", Format: "date-time"},
			},
		},
		"Change": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"tag":  {Type: "string", Enum: tags},
				"text": {Type: "string"},
			},
		},
		"ConstraintDiff": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"constraint_title": {Type: "string"},
				"status":           {Type: "string", Enum: cellStatuses[:4]},
				"changes":          openapi.ArrayOf("Change"),
			},
		},
		"Comparison": {
			Type:        "object",
			Description: "Diff of two adjacent versions",
			Properties: map[string]*openapi.Schema{
				"from":                  {Type: "string"},
				"to":                    {Type: "string"},
				"changes_by_constraint": openapi.ArrayOf("ConstraintDiff"),
			},
		},
		"ComparisonResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"versions":    openapi.ArrayOf("VersionInfo"),
				"comparisons": openapi.ArrayOf("Comparison"),
			},
		},
		"ComparisonJob": {
			Type:     "object",
			Required: []string{"jobId", "projectId", "customerId", "status", "createdAt", "updatedAt"},
			Properties: map[string]*openapi.Schema{
				"jobId":      {Type: "string", Format: "uuid"},
				"projectId":  {Type: "string"},
				"customerId": {Type: "string"},
				"status":     {Type: "string", Enum: statuses},
				"result":     openapi.SchemaRef("ComparisonResult"),
				"error":      {Type: "string"},
				"createdAt":  {Type: "string", Format: "date-time"},
				"updatedAt":  {Type: "string", Format: "date-time"},
			},
		},
		"Line": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string"},
				"tag":  {Type: "string", Enum: tags},
			},
		},
		"Cell": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status": {Type: "string", Enum: cellStatuses},
				"lines":  openapi.ArrayOf("Line"),
			},
		},
		"TableRow": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"constraint_title": {Type: "string"},
				"change_score":     {Type: "integer", Description: "Non-baseline cells recording a change"},
				"cells":            cells,
			},
		},
		"TableStats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total":    {Type: "integer"},
				"modified": {Type: "integer"},
				"added":    {Type: "integer"},
				"removed":  {Type: "integer"},
			},
		},
		"TableView": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"columns": {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Older versions, oldest first"},
				"pinned":  {Type: "string", Description: "Latest version name"},
				"rows":    openapi.ArrayOf("TableRow"),
				"stats":   openapi.SchemaRef("TableStats"),
			},
		},
	}
}
