package client

import (
	"context"
	"fmt"
	"reflect"

	"github.com/quillorm/quill/model"
	"github.com/quillorm/quill/query/queryset"
	"github.com/quillorm/quill/query/sqlgen"
	"github.com/quillorm/quill/query/where"
)

// Save writes target, a pointer to a model struct, to the database. A
// zero primary key means a new row and triggers an INSERT; otherwise
// the existing row is updated in place.
func (c *Client) Save(ctx context.Context, modelName string, target interface{}) error {
	meta, err := c.reg.Get(modelName)
	if err != nil {
		return err
	}
	structVal, err := structOf(target)
	if err != nil {
		return err
	}

	pk := meta.PrimaryKey()
	pkVal, err := fieldValue(structVal, meta, pk)
	if err != nil {
		return err
	}

	if isZero(pkVal) {
		// The backend assigns the key; sending an explicit zero would
		// defeat auto increment.
		assigns, err := c.assignments(structVal, meta, true)
		if err != nil {
			return err
		}
		q := sqlgen.Insert(c.dialect, meta.Table(), assigns)
		_, err = c.exec.Exec(ctx, q)
		return err
	}

	assigns, err := c.assignments(structVal, meta, true)
	if err != nil {
		return err
	}
	q, err := sqlgen.Update(c.dialect, meta.Table(), assigns,
		where.C(pk.Name).Eq(pkVal), metaResolver{meta})
	if err != nil {
		return err
	}
	affected, err := c.exec.Exec(ctx, q)
	if err != nil {
		return err
	}
	if affected == 0 {
		return queryset.ErrDoesNotExist
	}
	return nil
}

// Delete removes target's row, identified by its primary key.
func (c *Client) Delete(ctx context.Context, modelName string, target interface{}) error {
	meta, err := c.reg.Get(modelName)
	if err != nil {
		return err
	}
	structVal, err := structOf(target)
	if err != nil {
		return err
	}
	pk := meta.PrimaryKey()
	pkVal, err := fieldValue(structVal, meta, pk)
	if err != nil {
		return err
	}
	if isZero(pkVal) {
		return fmt.Errorf("client: delete %s: primary key not set", modelName)
	}

	qs, err := c.QuerySet(modelName)
	if err != nil {
		return err
	}
	return qs.Filter(where.C(pk.Name).Eq(pkVal)).Remove(ctx)
}

type metaResolver struct {
	meta *model.Meta
}

func (r metaResolver) ResolveColumn(field string) (string, string, error) {
	column, err := r.meta.Column(field)
	if err != nil {
		return "", "", err
	}
	return "", column, nil
}

// assignments collects column assignments from the struct, skipping
// the primary key when the statement targets an existing row.
func (c *Client) assignments(structVal reflect.Value, meta *model.Meta, skipPK bool) ([]sqlgen.Assign, error) {
	fields := meta.Fields()
	assigns := make([]sqlgen.Assign, 0, len(fields))
	for _, f := range fields {
		if skipPK && f.PrimaryKey {
			continue
		}
		v, err := fieldValue(structVal, meta, f)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, sqlgen.Assign{Column: f.Column, Value: v})
	}
	return assigns, nil
}

func structOf(target interface{}) (reflect.Value, error) {
	val := reflect.ValueOf(target)
	if !val.IsValid() || val.Kind() != reflect.Ptr || val.IsNil() {
		return reflect.Value{}, fmt.Errorf("client: target must be a non-nil struct pointer, got %T", target)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("client: target must point to a struct, got %T", target)
	}
	return val, nil
}

// fieldValue reads the struct field backing a model field. Nil
// pointers become SQL NULL.
func fieldValue(structVal reflect.Value, meta *model.Meta, f model.Field) (interface{}, error) {
	sf, ok := model.FindStructField(structVal.Type(), f.Name)
	if !ok {
		return nil, fmt.Errorf("client: model %s: struct %s has no field for %q",
			meta.Name(), structVal.Type(), f.Name)
	}
	fv := structVal.FieldByIndex(sf.Index)
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}
	return fv.Interface(), nil
}

func isZero(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
