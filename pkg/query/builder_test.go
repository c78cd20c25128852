package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/mandate/pkg/query"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "projects", "p").
		Project("id", "ID").
		Project("customer_id", "CustomerID").
		Project("name", "Name").
		Project("created_at", "CreatedAt")
}

func TestBuildPage(t *testing.T) {
	search := "growth"
	b := query.NewBuilder(projection(), query.SortField{Field: "Name"}).
		WhereEquals("CustomerID", "c-1").
		WhereSearch(&search, "Name", "CustomerID")

	sql, args := b.BuildPage(2, 10)

	want := "SELECT p.id, p.customer_id, p.name, p.created_at FROM public.projects p" +
		" WHERE p.customer_id = $1 AND (p.name ILIKE $2 OR p.customer_id ILIKE $3)" +
		" ORDER BY p.name ASC LIMIT 10 OFFSET 10"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if diff := cmp.Diff([]any{"c-1", "%growth%", "%growth%"}, args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(projection()).WhereEquals("CustomerID", "c-1").BuildCount()

	if sql != "SELECT COUNT(*) FROM public.projects p WHERE p.customer_id = $1" {
		t.Errorf("got %s", sql)
	}
	if len(args) != 1 {
		t.Errorf("args: got %v", args)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(projection()).BuildSingle("ID", "abc")

	if sql != "SELECT p.id, p.customer_id, p.name, p.created_at FROM public.projects p WHERE p.id = $1" {
		t.Errorf("got %s", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args: got %v", args)
	}
}

func TestOrderByIgnoresUnmappedFields(t *testing.T) {
	fields := query.ParseSortFields("-CreatedAt,name; DROP TABLE projects")
	sql, _ := query.NewBuilder(projection()).OrderByFields(fields).Build()

	want := "SELECT p.id, p.customer_id, p.name, p.created_at FROM public.projects p ORDER BY p.created_at DESC"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
}

func TestWhereSkipsNilValues(t *testing.T) {
	var customer *string
	empty := ""

	sql, args := query.NewBuilder(projection()).
		WhereEquals("CustomerID", customer).
		WhereContains("Name", &empty).
		Build()

	if sql != "SELECT p.id, p.customer_id, p.name, p.created_at FROM public.projects p" {
		t.Errorf("got %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args: got %v", args)
	}
}

func TestParseSortFields(t *testing.T) {
	got := query.ParseSortFields("Name, -CreatedAt,,")
	want := []query.SortField{{Field: "Name"}, {Field: "CreatedAt", Descending: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if query.ParseSortFields("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestFirstKeepsOrderAndNumbering(t *testing.T) {
	sql, args := query.NewBuilder(projection(), query.SortField{Field: "CreatedAt", Descending: true}).
		WhereEquals("CustomerID", "acme").
		WhereContains("Name", ptr("equity")).
		First()

	want := "SELECT p.id, p.customer_id, p.name, p.created_at FROM public.projects p" +
		" WHERE p.customer_id = $1 AND p.name ILIKE $2" +
		" ORDER BY p.created_at DESC LIMIT 1"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if diff := cmp.Diff([]any{"acme", "%equity%"}, args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestBuildIsRepeatable(t *testing.T) {
	b := query.NewBuilder(projection()).WhereEquals("CustomerID", "acme")

	first, _ := b.Build()
	second, args := b.Build()
	if first != second {
		t.Errorf("second build differs:\n%s\n%s", first, second)
	}
	if len(args) != 1 {
		t.Errorf("args accumulated across builds: %v", args)
	}
}

func ptr(s string) *string { return &s }
