package membership

import (
	"fmt"
	"strings"
)

// SQLSchema creates the MediaWiki-shaped tables the SQL backends query.
// It is portable between SQLite and PostgreSQL.
var SQLSchema = []string{
	`CREATE TABLE IF NOT EXISTS page (
		page_id        BIGINT PRIMARY KEY,
		page_namespace INTEGER NOT NULL,
		page_title     VARCHAR(255) NOT NULL,
		UNIQUE (page_namespace, page_title)
	)`,
	`CREATE TABLE IF NOT EXISTS categorylinks (
		cl_from BIGINT NOT NULL,
		cl_to   VARCHAR(255) NOT NULL,
		PRIMARY KEY (cl_from, cl_to)
	)`,
	`CREATE INDEX IF NOT EXISTS categorylinks_cl_to ON categorylinks (cl_to)`,
}

// SubcategoriesSQL returns the aggregation query. bind renders the n-th
// (1-based) placeholder for the target dialect. The query takes two
// arguments: the category title and NamespaceCategory.
func SubcategoriesSQL(order Order, bind func(n int) string) string {
	orderBy := "name"
	if order == OrderByCount {
		orderBy = "count DESC, name"
	}

	var b strings.Builder
	b.WriteString("SELECT p1.page_title AS name, COUNT(*) AS count ")
	b.WriteString("FROM categorylinks cl, categorylinks cl2, page p1, page p2 ")
	fmt.Fprintf(&b, "WHERE cl.cl_to = %s ", bind(1))
	b.WriteString("AND cl.cl_from = p1.page_id ")
	b.WriteString("AND cl2.cl_to = p1.page_title ")
	b.WriteString("AND cl2.cl_from = p2.page_id ")
	fmt.Fprintf(&b, "AND p1.page_namespace = %s ", bind(2))
	b.WriteString("AND p1.page_id != p2.page_id ")
	b.WriteString("GROUP BY p1.page_title ")
	b.WriteString("ORDER BY " + orderBy)
	return b.String()
}

// InsertPageSQL and InsertLinkSQL seed the tables. Duplicate links are
// ignored; duplicate pages are an error.
func InsertPageSQL(bind func(n int) string) string {
	return fmt.Sprintf("INSERT INTO page (page_id, page_namespace, page_title) VALUES (%s, %s, %s)", bind(1), bind(2), bind(3))
}

// InsertLinkSQL returns the categorylinks insert statement.
func InsertLinkSQL(bind func(n int) string) string {
	return fmt.Sprintf("INSERT INTO categorylinks (cl_from, cl_to) VALUES (%s, %s) ON CONFLICT DO NOTHING", bind(1), bind(2))
}

// BindQuestion renders "?" placeholders (SQLite, MySQL).
func BindQuestion(int) string { return "?" }

// BindDollar renders "$n" placeholders (PostgreSQL).
func BindDollar(n int) string { return fmt.Sprintf("$%d", n) }
