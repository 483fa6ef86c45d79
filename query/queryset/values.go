package queryset

import (
	"context"
	"fmt"

	"github.com/quillorm/quill/model"
	"github.com/quillorm/quill/query/executor"
	"github.com/quillorm/quill/query/sqlgen"
)

// Values returns the matching rows as field-name-to-value maps. With
// no field names, every field of the model is included. Only the
// requested columns are selected; values are converted to the model's
// canonical Go types.
func (qs *QuerySet) Values(ctx context.Context, fields ...string) ([]map[string]interface{}, error) {
	selected, rows, err := qs.fetchFields(ctx, fields)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, rows.Len())
	for _, row := range rows.Values {
		m := make(map[string]interface{}, len(selected))
		for i, f := range selected {
			v, err := convert(f, row[i])
			if err != nil {
				return nil, err
			}
			m[f.Name] = v
		}
		out = append(out, m)
	}
	return out, nil
}

// ValuesList returns the matching rows as positional value slices in
// the order the field names are given. With no field names, values
// follow the model's field order.
func (qs *QuerySet) ValuesList(ctx context.Context, fields ...string) ([][]interface{}, error) {
	selected, rows, err := qs.fetchFields(ctx, fields)
	if err != nil {
		return nil, err
	}
	out := make([][]interface{}, 0, rows.Len())
	for _, row := range rows.Values {
		values := make([]interface{}, len(selected))
		for i, f := range selected {
			v, err := convert(f, row[i])
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		out = append(out, values)
	}
	return out, nil
}

// fetchFields runs a select restricted to the requested fields. The
// projection bypasses the row cache, which always holds full rows.
func (qs *QuerySet) fetchFields(ctx context.Context, fields []string) ([]model.Field, *executor.Rows, error) {
	selected, err := qs.selectedFields(fields)
	if err != nil {
		return nil, nil, err
	}
	if qs.st.where.IsEmpty() {
		return selected, &executor.Rows{}, nil
	}

	cols := make([]sqlgen.Col, len(selected))
	for i, f := range selected {
		cols[i] = sqlgen.Col{Name: f.Column}
	}
	order, err := qs.orderClauses("")
	if err != nil {
		return nil, nil, err
	}
	q, err := sqlgen.Select(qs.dialect, qs.meta.Table(), cols, nil, qs.st.where,
		fieldResolver{meta: qs.meta}, order, qs.st.limit, qs.st.offset)
	if err != nil {
		return nil, nil, err
	}
	rows, err := qs.exec.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return selected, rows, nil
}

// selectedFields maps requested field names to their metadata,
// defaulting to all of the model's fields.
func (qs *QuerySet) selectedFields(fields []string) ([]model.Field, error) {
	if len(fields) == 0 {
		return qs.meta.Fields(), nil
	}
	selected := make([]model.Field, len(fields))
	for i, name := range fields {
		f, ok := qs.meta.Field(name)
		if !ok {
			return nil, fmt.Errorf("queryset: model %s has no field %q", qs.meta.Name(), name)
		}
		selected[i] = f
	}
	return selected, nil
}
