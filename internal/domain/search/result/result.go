package result

import (
	"bytes"
	"encoding/json"

	"github.com/kailas-cloud/hunt/internal/domain/record"
)

// Page is one window of a paginated search.
type Page struct {
	items       []*record.Record
	total       int64
	perPage     int
	currentPage int
	query       map[string]string
}

// NewPage creates a page. Non-positive perPage or currentPage fall back to 1.
func NewPage(items []*record.Record, total int64, perPage, currentPage int) *Page {
	if perPage < 1 {
		perPage = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if items == nil {
		items = []*record.Record{}
	}
	return &Page{items: items, total: total, perPage: perPage, currentPage: currentPage, query: map[string]string{}}
}

// Items returns the hydrated records of this page.
func (p *Page) Items() []*record.Record { return p.items }

// Total returns the engine-reported total hit count.
func (p *Page) Total() int64 { return p.total }

// PerPage returns the page size.
func (p *Page) PerPage() int { return p.perPage }

// CurrentPage returns the 1-based page number.
func (p *Page) CurrentPage() int { return p.currentPage }

// LastPage returns the last page number, at least 1.
func (p *Page) LastPage() int {
	last := int((p.total + int64(p.perPage) - 1) / int64(p.perPage))
	if last < 1 {
		return 1
	}
	return last
}

// HasMore reports whether pages follow this one.
func (p *Page) HasMore() bool { return p.currentPage < p.LastPage() }

// Append adds a query parameter carried into page links.
func (p *Page) Append(key, value string) { p.query[key] = value }

// Query returns the appended query parameters.
func (p *Page) Query() map[string]string { return p.query }

// MarshalJSON renders the page with its paging metadata.
func (p *Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items       []*record.Record  `json:"items"`
		Total       int64             `json:"total"`
		PerPage     int               `json:"per_page"`
		CurrentPage int               `json:"current_page"`
		LastPage    int               `json:"last_page"`
		Query       map[string]string `json:"query,omitempty"`
	}{p.items, p.total, p.perPage, p.currentPage, p.LastPage(), p.query})
}

// Groups partitions records by storage table, keeping first-appearance order.
type Groups struct {
	order []string
	items map[string][]*record.Record
}

// GroupByTable partitions rs by table name.
func GroupByTable(rs []*record.Record) *Groups {
	g := &Groups{items: make(map[string][]*record.Record)}
	for _, r := range rs {
		name := r.Table()
		if _, ok := g.items[name]; !ok {
			g.order = append(g.order, name)
		}
		g.items[name] = append(g.items[name], r)
	}
	return g
}

// Keys returns table names in first-appearance order.
func (g *Groups) Keys() []string { return g.order }

// Get returns the records of one table.
func (g *Groups) Get(table string) []*record.Record { return g.items[table] }

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.order) }

// MarshalJSON renders the groups as an object whose keys keep group order.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(g.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Quick is a quick-search result: a flat list, optionally grouped.
type Quick struct {
	items  []*record.Record
	groups *Groups
}

// NewQuick creates a flat quick-search result.
func NewQuick(items []*record.Record) *Quick {
	if items == nil {
		items = []*record.Record{}
	}
	return &Quick{items: items}
}

// NewGroupedQuick creates a quick-search result grouped by table.
func NewGroupedQuick(items []*record.Record) *Quick {
	q := NewQuick(items)
	q.groups = GroupByTable(q.items)
	return q
}

// Items returns the records in engine order.
func (q *Quick) Items() []*record.Record { return q.items }

// Groups returns the grouping, nil when not grouped.
func (q *Quick) Groups() *Groups { return q.groups }

// Grouped reports whether the result is grouped.
func (q *Quick) Grouped() bool { return q.groups != nil }

// MarshalJSON renders the grouping when present, the flat list otherwise.
func (q *Quick) MarshalJSON() ([]byte, error) {
	if q.groups != nil {
		return json.Marshal(q.groups)
	}
	return json.Marshal(q.items)
}
