package db

import "strings"

// AllTypes is the wildcard type scope.
const AllTypes = "_all"

// SearchParams is the engine-ready description of one search.
type SearchParams struct {
	Index string      `json:"index"`
	Type  string      `json:"type,omitempty"`
	Size  int         `json:"size,omitempty"`
	From  *int        `json:"from,omitempty"`
	Body  *SearchBody `json:"body,omitempty"`
}

// Types splits the comma-separated type scope. The wildcard yields nil.
func (p *SearchParams) Types() []string {
	if p.Type == "" || p.Type == AllTypes {
		return nil
	}
	var out []string
	for _, t := range strings.Split(p.Type, ",") {
		if t != "" && t != AllTypes {
			out = append(out, t)
		}
	}
	return out
}

// SearchBody is the JSON request body of a search.
type SearchBody struct {
	Query      *Query `json:"query,omitempty"`
	PostFilter *Query `json:"post_filter,omitempty"`
}

// IsEmpty reports whether the body carries neither query nor filter.
func (b *SearchBody) IsEmpty() bool {
	return b == nil || (b.Query == nil && b.PostFilter == nil)
}

// Query is a query DSL node: a bool conjunction or a single match.
type Query struct {
	Bool  *Bool             `json:"bool,omitempty"`
	Match map[string]string `json:"match,omitempty"`
}

// Bool is a bool query restricted to must clauses.
type Bool struct {
	Must []Clause `json:"must"`
}

// Clause is a leaf query clause.
type Clause struct {
	MultiMatch *MultiMatch    `json:"multi_match,omitempty"`
	Term       map[string]any `json:"term,omitempty"`
}

// MultiMatch matches one term across boosted fields.
type MultiMatch struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

// TermClause builds a term clause for field = value.
func TermClause(field string, value any) Clause {
	return Clause{Term: map[string]any{field: value}}
}

// SearchResponse is the decoded engine search response.
type SearchResponse struct {
	Took  int   `json:"took"`
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Hit is a single engine hit.
type Hit struct {
	Index  string         `json:"_index"`
	Type   string         `json:"_type,omitempty"`
	ID     string         `json:"_id"`
	Score  float64        `json:"_score"`
	Source map[string]any `json:"_source"`
}
