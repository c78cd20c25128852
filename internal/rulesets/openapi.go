package rulesets

import "github.com/JaimeStill/mandate/pkg/openapi"

type spec struct {
	List           *openapi.Operation
	Find           *openapi.Operation
	Create         *openapi.Operation
	FindByCustomer *openapi.Operation
	Generate       *openapi.Operation
}

var versionParam = openapi.TypedPathParam("version", "integer", "int32", "Version number, starting at 1")

// Spec describes the ruleset version routes.
var Spec = spec{
	List: &openapi.Operation{
		OperationID: "listRulesetVersions",
		Summary:     "List the ruleset versions of a project, oldest first",
		Parameters:  []*openapi.Parameter{openapi.PathParam("projectId", "Project ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseSchema("Ruleset versions", openapi.ArrayOf("RulesetVersion")),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Find: &openapi.Operation{
		OperationID: "findRulesetVersion",
		Summary:     "Find one version of a project",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("projectId", "Project ID"),
			versionParam,
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ruleset version", "RulesetVersion"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		OperationID: "createRulesetVersion",
		Summary:     "Append a version built from supplied raw rules",
		Parameters:  []*openapi.Parameter{openapi.PathParam("projectId", "Project ID")},
		RequestBody: openapi.RequestBodyJSON("CreateRulesetVersion", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created version", "RulesetVersion"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	FindByCustomer: &openapi.Operation{
		OperationID: "findCustomerRulesetVersion",
		Summary:     "Find a version by customer and version number",
		Parameters: []*openapi.Parameter{
			openapi.TypedPathParam("customerId", "string", "", "Customer ID"),
			versionParam,
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Ruleset version", "RulesetVersion"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Generate: &openapi.Operation{
		OperationID: "generateRulesetVersion",
		Summary:     "Extract, map and analyse a guidelines document into a new version",
		Description: "Runs the rule extraction, mapping and gap analysis agents in order. The body is optional.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("documentId", "Document ID")},
		RequestBody: openapi.RequestBodyJSON("GenerateRulesetVersion", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Generated version", "RulesetVersion"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func (spec) Schemas() map[string]*openapi.Schema {
	one := 1
	return map[string]*openapi.Schema{
		"Section": {
			Type:     "object",
			Required: []string{"title", "rules"},
			Properties: map[string]*openapi.Schema{
				"title": {Type: "string", Description: "Constraint title"},
				"rules": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"RulesetVersion": {
			Type:     "object",
			Required: []string{"id", "project_id", "customer_id", "version", "versionName", "raw_rules", "createdAt"},
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"project_id":   {Type: "string", Format: "uuid"},
				"customer_id":  {Type: "string"},
				"document_id":  {Type: "string", Format: "uuid"},
				"version":      {Type: "integer"},
				"versionName":  {Type: "string", Example: "v1"},
				"raw_rules":    openapi.ArrayOf("Section"),
				"mapped_rules": {Description: "Mapping agent output"},
				"gap_analysis": {Description: "Gap analysis agent output"},
				"createdAt":    {Type: "string", Format: "date-time"},
			},
		},
		"CreateRulesetVersion": {
			Type:     "object",
			Required: []string{"raw_rules"},
			Properties: map[string]*openapi.Schema{
				"versionName":  {Type: "string", Description: "Defaults to v<version>"},
				"raw_rules":    {Type: "array", Items: openapi.SchemaRef("Section"), MinItems: &one},
				"mapped_rules": {Description: "Any JSON value"},
				"gap_analysis": {Description: "Any JSON value"},
			},
		},
		"GenerateRulesetVersion": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"versionName": {Type: "string", Description: "Defaults to v<version>"},
			},
		},
	}
}
