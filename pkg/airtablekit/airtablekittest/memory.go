// Package airtablekittest provides an in-memory airtablekit.Client for tests.
package airtablekittest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"airtable-graphql/pkg/airtablekit"
)

// ErrNotFound is returned by Find, Update, and Destroy for unknown ids.
var ErrNotFound = errors.New("airtablekittest: record not found")

// Client is an in-memory backend holding any number of bases.
type Client struct {
	mu     sync.Mutex
	bases  map[string]*Base
	opened map[string]int
}

// NewClient creates an empty client.
func NewClient() *Client {
	return &Client{
		bases:  make(map[string]*Base),
		opened: make(map[string]int),
	}
}

// Base returns the named base, creating it on first use.
func (c *Client) Base(id string) airtablekit.Base {
	return c.base(id)
}

// Seed returns the named base for direct setup.
func (c *Client) Seed(id string) *Base {
	return c.base(id)
}

func (c *Client) base(id string) *Base {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bases[id]
	if !ok {
		b = &Base{id: id, client: c, tables: make(map[string]*Table)}
		c.bases[id] = b
	}
	return b
}

// Opened returns how many times a table handle was requested.
func (c *Client) Opened(baseID, table string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened[baseID+"/"+table]
}

// Base is one in-memory base.
type Base struct {
	id     string
	client *Client
	mu     sync.Mutex
	tables map[string]*Table
}

// Table returns the named table, creating it on first use.
func (b *Base) Table(name string) airtablekit.Table {
	b.client.mu.Lock()
	b.client.opened[b.id+"/"+name]++
	b.client.mu.Unlock()
	return b.Seed(name)
}

// Seed returns the named table for direct setup without counting an open.
func (b *Base) Seed(name string) *Table {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tables[name]
	if !ok {
		t = &Table{name: name, records: make(map[string]*airtablekit.Record), delays: make(map[string]time.Duration)}
		b.tables[name] = t
	}
	return t
}

// Table is one in-memory table.
type Table struct {
	name string

	mu         sync.Mutex
	records    map[string]*airtablekit.Record
	order      []string
	seq        int
	delays     map[string]time.Duration
	destroyErr error
	selects    []airtablekit.SelectOptions
	finds      []string
}

// Put stores a record as given.
func (t *Table) Put(r *airtablekit.Record) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[r.ID]; !ok {
		t.order = append(t.order, r.ID)
	}
	t.records[r.ID] = r
	return t
}

// Delay makes Find of id wait d before returning.
func (t *Table) Delay(id string, d time.Duration) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delays[id] = d
	return t
}

// FailDestroy makes every Destroy fail with err.
func (t *Table) FailDestroy(err error) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyErr = err
	return t
}

// Selects returns the options of every Select call.
func (t *Table) Selects() []airtablekit.SelectOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]airtablekit.SelectOptions(nil), t.selects...)
}

// Finds returns the ids of every Find call in call order.
func (t *Table) Finds() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.finds...)
}

// Get returns a stored record.
func (t *Table) Get(id string) (*airtablekit.Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[id]
	return r, ok
}

// Select returns records in insertion order, or sorted by opts.Sort. Filter
// formulas are recorded but not evaluated.
func (t *Table) Select(ctx context.Context, opts airtablekit.SelectOptions) ([]*airtablekit.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selects = append(t.selects, opts)

	out := make([]*airtablekit.Record, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.records[id])
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i], out[j], opts.Sort)
		})
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []*airtablekit.Record{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.PageSize > 0 && len(out) > opts.PageSize {
		out = out[:opts.PageSize]
	}
	return out, nil
}

func less(a, b *airtablekit.Record, keys []airtablekit.Sort) bool {
	for _, k := range keys {
		av, bv := sortValue(a, k.Field), sortValue(b, k.Field)
		if av == bv {
			continue
		}
		if k.Direction == "desc" {
			return compare(av, bv) > 0
		}
		return compare(av, bv) < 0
	}
	return false
}

func sortValue(r *airtablekit.Record, field string) string {
	if field == "id" {
		return r.ID
	}
	if v, ok := r.Fields[field]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func compare(a, b string) int {
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Find returns a record after any configured delay.
func (t *Table) Find(ctx context.Context, id string) (*airtablekit.Record, error) {
	t.mu.Lock()
	t.finds = append(t.finds, id)
	delay := t.delays[id]
	t.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, t.name, id)
	}
	return r, nil
}

// Create stores a new record with a generated id.
func (t *Table) Create(ctx context.Context, fields map[string]any) (*airtablekit.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.seq++
	id := fmt.Sprintf("rec%s%d", t.name, t.seq)
	t.mu.Unlock()

	r := &airtablekit.Record{
		ID:          id,
		CreatedTime: time.Unix(0, 0).UTC().Format(time.RFC3339),
		Fields:      copyFields(fields),
	}
	t.Put(r)
	return r, nil
}

// Update merges fields into an existing record.
func (t *Table) Update(ctx context.Context, id string, fields map[string]any) (*airtablekit.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, t.name, id)
	}
	updated := &airtablekit.Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: copyFields(r.Fields)}
	for k, v := range fields {
		updated.Fields[k] = v
	}
	t.records[id] = updated
	return updated, nil
}

// Destroy removes a record, or fails with the configured error.
func (t *Table) Destroy(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyErr != nil {
		return false, t.destroyErr
	}
	if _, ok := t.records[id]; !ok {
		return false, fmt.Errorf("%w: %s/%s", ErrNotFound, t.name, id)
	}
	delete(t.records, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
