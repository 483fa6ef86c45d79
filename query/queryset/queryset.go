// Package queryset implements the lazy, chainable cursor at the heart
// of the ORM. A QuerySet describes a filtered, ordered, windowed view
// over one model's rows; SQL is generated only when a terminal
// operation needs results, and fetched rows are cached for repeat
// access.
//
// Chaining operations are copy-on-branch: each returns a new QuerySet
// derived from the receiver, sharing the cheap immutable parts and
// never the result cache. A QuerySet and its iterators are meant for a
// single goroutine; hand each goroutine its own branch.
package queryset

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quillorm/quill/model"
	"github.com/quillorm/quill/query/executor"
	"github.com/quillorm/quill/query/sqlgen"
	"github.com/quillorm/quill/query/where"
)

type orderKey struct {
	field string
	desc  bool
}

// state is the immutable composition snapshot a branch owns.
type state struct {
	where   where.Node
	order   []orderKey
	offset  int
	limit   int // -1 = unbounded
	related bool
}

// QuerySet is a lazy cursor over one model's rows.
type QuerySet struct {
	meta    *model.Meta
	reg     *model.Registry
	exec    executor.Executor
	dialect sqlgen.Dialect
	st      state

	// fetch results; populated by the first terminal operation and
	// never shared with branches.
	cache   *executor.Rows
	related []*model.Meta
}

// New creates an unbound query set over a registered model.
func New(reg *model.Registry, modelName string, exec executor.Executor, dialect sqlgen.Dialect) (*QuerySet, error) {
	meta, err := reg.Get(modelName)
	if err != nil {
		return nil, err
	}
	return &QuerySet{
		meta:    meta,
		reg:     reg,
		exec:    exec,
		dialect: dialect,
		st:      state{limit: -1},
	}, nil
}

// Meta returns the model metadata this query set ranges over.
func (qs *QuerySet) Meta() *model.Meta { return qs.meta }

// Where returns the current predicate tree.
func (qs *QuerySet) Where() where.Node { return qs.st.where }

func (qs *QuerySet) branch(mutate func(*state)) *QuerySet {
	st := qs.st
	mutate(&st)
	return &QuerySet{
		meta:    qs.meta,
		reg:     qs.reg,
		exec:    qs.exec,
		dialect: qs.dialect,
		st:      st,
	}
}

// Filter narrows the query set to rows matching w.
func (qs *QuerySet) Filter(w where.Node) *QuerySet {
	return qs.branch(func(st *state) { st.where = st.where.And(w) })
}

// Exclude narrows the query set to rows not matching w.
func (qs *QuerySet) Exclude(w where.Node) *QuerySet {
	return qs.branch(func(st *state) { st.where = st.where.And(w.Not()) })
}

// All returns an identity copy, detached from any fetched cache.
func (qs *QuerySet) All() *QuerySet {
	return qs.branch(func(*state) {})
}

// None returns a query set guaranteed to match nothing. Terminal
// operations on it short-circuit without touching the database.
func (qs *QuerySet) None() *QuerySet {
	return qs.branch(func(st *state) { st.where = where.Empty() })
}

// OrderBy replaces the ordering. A leading "-" on a key name means
// descending.
func (qs *QuerySet) OrderBy(keys ...string) *QuerySet {
	order := make([]orderKey, 0, len(keys))
	for _, key := range keys {
		field, desc := strings.CutPrefix(key, "-")
		order = append(order, orderKey{field: field, desc: desc})
	}
	return qs.branch(func(st *state) { st.order = order })
}

// Limit windows the result to count rows starting at offset. A count
// of -1 means unbounded from offset.
func (qs *QuerySet) Limit(offset, count int) *QuerySet {
	return qs.branch(func(st *state) {
		st.offset = offset
		st.limit = count
	})
}

// SelectRelated marks foreign-key targets for eager fetching: the
// select joins each FK's target table and fills the matching relation
// holder fields during materialization.
func (qs *QuerySet) SelectRelated() *QuerySet {
	return qs.branch(func(st *state) { st.related = true })
}

// fieldResolver resolves predicate and order fields against the model,
// qualifying columns by table when the statement joins.
type fieldResolver struct {
	meta  *model.Meta
	table string
}

func (r fieldResolver) ResolveColumn(field string) (string, string, error) {
	column, err := r.meta.Column(field)
	if err != nil {
		return "", "", err
	}
	return r.table, column, nil
}

// selection builds the column list, joins and related metadata for a
// row fetch.
func (qs *QuerySet) selection() (cols []sqlgen.Col, joins []sqlgen.Join, related []*model.Meta, err error) {
	fks := qs.meta.ForeignKeys()
	qualified := qs.st.related && len(fks) > 0

	baseTable := ""
	if qualified {
		baseTable = qs.meta.Table()
	}
	for _, f := range qs.meta.Fields() {
		cols = append(cols, sqlgen.Col{Table: baseTable, Name: f.Column})
	}
	if !qualified {
		return cols, nil, nil, nil
	}

	for _, fk := range fks {
		rmeta, err := qs.reg.Get(fk.ForeignKey)
		if err != nil {
			return nil, nil, nil, err
		}
		joins = append(joins, sqlgen.Join{
			Table:      rmeta.Table(),
			Column:     rmeta.PrimaryKey().Column,
			FromTable:  qs.meta.Table(),
			FromColumn: fk.Column,
		})
		for _, f := range rmeta.Fields() {
			cols = append(cols, sqlgen.Col{Table: rmeta.Table(), Name: f.Column})
		}
		related = append(related, rmeta)
	}
	return cols, joins, related, nil
}

func (qs *QuerySet) orderClauses(table string) ([]sqlgen.Order, error) {
	if len(qs.st.order) == 0 {
		return nil, nil
	}
	order := make([]sqlgen.Order, 0, len(qs.st.order))
	for _, k := range qs.st.order {
		column, err := qs.meta.Column(k.field)
		if err != nil {
			return nil, err
		}
		order = append(order, sqlgen.Order{Table: table, Column: column, Desc: k.desc})
	}
	return order, nil
}

// fetch populates the result cache, once. A query set matching nothing
// caches an empty window without executing anything.
func (qs *QuerySet) fetch(ctx context.Context) error {
	if qs.cache != nil {
		return nil
	}
	if qs.st.where.IsEmpty() {
		qs.cache = &executor.Rows{}
		return nil
	}

	cols, joins, related, err := qs.selection()
	if err != nil {
		return err
	}
	baseTable := ""
	if len(joins) > 0 {
		baseTable = qs.meta.Table()
	}
	order, err := qs.orderClauses(baseTable)
	if err != nil {
		return err
	}
	q, err := sqlgen.Select(qs.dialect, qs.meta.Table(), cols, joins, qs.st.where,
		fieldResolver{meta: qs.meta, table: baseTable}, order, qs.st.limit, qs.st.offset)
	if err != nil {
		return err
	}
	rows, err := qs.exec.Query(ctx, q)
	if err != nil {
		return err
	}
	qs.cache = rows
	qs.related = related
	return nil
}

// Fetched reports whether the result cache is populated.
func (qs *QuerySet) Fetched() bool { return qs.cache != nil }

// Count executes a COUNT(*) variant of the query and returns the
// number of matching rows. The row cache is not populated. A query set
// matching nothing answers without a database round trip.
func (qs *QuerySet) Count(ctx context.Context) (int, error) {
	if qs.st.where.IsEmpty() {
		return 0, nil
	}
	q, err := sqlgen.SelectCount(qs.dialect, qs.meta.Table(), qs.st.where,
		fieldResolver{meta: qs.meta}, qs.st.limit, qs.st.offset)
	if err != nil {
		return 0, err
	}
	rows, err := qs.exec.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	if rows.Len() == 0 || len(rows.Values[0]) == 0 {
		return 0, fmt.Errorf("queryset: count returned no rows")
	}
	n, err := toInt(rows.Values[0][0])
	if err != nil {
		return 0, fmt.Errorf("queryset: count: %w", err)
	}
	return n, nil
}

// Size returns the cached row count when the window has been fetched,
// and otherwise behaves like Count.
func (qs *QuerySet) Size(ctx context.Context) (int, error) {
	if qs.cache != nil {
		return qs.cache.Len(), nil
	}
	return qs.Count(ctx)
}

// Get fetches the single row matching the query set's predicate
// combined with w and materializes it into target, a pointer to a
// model struct owned by the caller. Zero matches yield ErrDoesNotExist
// and two or more yield ErrMultipleObjectsReturned.
func (qs *QuerySet) Get(ctx context.Context, w where.Node, target interface{}) error {
	// Two rows are enough to detect multiplicity.
	narrowed := qs.Filter(w).Limit(0, 2)
	if err := narrowed.fetch(ctx); err != nil {
		return err
	}
	switch narrowed.cache.Len() {
	case 0:
		return ErrDoesNotExist
	case 1:
		return materialize(narrowed.meta, narrowed.related, narrowed.cache.Values[0], target)
	default:
		return ErrMultipleObjectsReturned
	}
}

// At materializes the row at index within the (possibly windowed)
// result into target. The first access fetches and memoizes the whole
// window; later accesses are cache hits. An out-of-range index returns
// ErrIndexOutOfRange.
func (qs *QuerySet) At(ctx context.Context, index int, target interface{}) error {
	if err := qs.fetch(ctx); err != nil {
		return err
	}
	if index < 0 || index >= qs.cache.Len() {
		return ErrIndexOutOfRange
	}
	return materialize(qs.meta, qs.related, qs.cache.Values[index], target)
}

// Remove deletes every row matching the query set's predicate. Before
// the delete, foreign-key references declared in the registry are
// cleared so no backend is left with dangling references; backends
// without native cascade get the same behavior. The row window does
// not apply to deletion.
func (qs *QuerySet) Remove(ctx context.Context) error {
	if qs.st.where.IsEmpty() {
		return nil
	}
	refs := qs.reg.ReferencesTo(qs.meta.Name())
	if len(refs) > 0 {
		pks, err := qs.pkValues(ctx)
		if err != nil {
			return err
		}
		if len(pks) > 0 {
			for _, ref := range refs {
				clear, err := sqlgen.Update(qs.dialect, ref.Meta.Table(),
					[]sqlgen.Assign{{Column: ref.Field.Column, Value: nil}},
					where.Leaf(ref.Field.Name, where.In, pks),
					fieldResolver{meta: ref.Meta})
				if err != nil {
					return err
				}
				if _, err := qs.exec.Exec(ctx, clear); err != nil {
					return err
				}
			}
		}
	}

	q, err := sqlgen.Delete(qs.dialect, qs.meta.Table(), qs.st.where, fieldResolver{meta: qs.meta})
	if err != nil {
		return err
	}
	_, err = qs.exec.Exec(ctx, q)
	return err
}

// pkValues fetches the primary keys of the matching rows.
func (qs *QuerySet) pkValues(ctx context.Context) ([]interface{}, error) {
	pk := qs.meta.PrimaryKey()
	q, err := sqlgen.Select(qs.dialect, qs.meta.Table(),
		[]sqlgen.Col{{Name: pk.Column}}, nil, qs.st.where,
		fieldResolver{meta: qs.meta}, nil, -1, 0)
	if err != nil {
		return nil, err
	}
	rows, err := qs.exec.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	pks := make([]interface{}, 0, rows.Len())
	for _, row := range rows.Values {
		pks = append(pks, row[0])
	}
	return pks, nil
}

// Update sets the given fields on every matching row and returns the
// number of affected rows. Assignments are applied in sorted field
// order so generated SQL is deterministic.
func (qs *QuerySet) Update(ctx context.Context, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("queryset: update with no fields")
	}
	if qs.st.where.IsEmpty() {
		return 0, nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	assigns := make([]sqlgen.Assign, 0, len(names))
	for _, name := range names {
		column, err := qs.meta.Column(name)
		if err != nil {
			return 0, err
		}
		assigns = append(assigns, sqlgen.Assign{Column: column, Value: fields[name]})
	}
	q, err := sqlgen.Update(qs.dialect, qs.meta.Table(), assigns, qs.st.where, fieldResolver{meta: qs.meta})
	if err != nil {
		return 0, err
	}
	return qs.exec.Exec(ctx, q)
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case []byte:
		var parsed int
		if _, err := fmt.Sscan(string(n), &parsed); err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}
