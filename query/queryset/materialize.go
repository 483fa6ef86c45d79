package queryset

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/quillorm/quill/model"
)

// materialize populates target, a pointer to a struct, from one result
// row. Base field values come first in the row; when related metas are
// present, each foreign key's target columns follow in declaration
// order and populate the matching relation holder field.
func materialize(meta *model.Meta, related []*model.Meta, values []interface{}, target interface{}) error {
	val := reflect.ValueOf(target)
	if !val.IsValid() || val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("queryset: materialize target must be a non-nil pointer, got %T", target)
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("queryset: materialize target must point to a struct, got %T", target)
	}

	fields := meta.Fields()
	if len(values) < len(fields) {
		return fmt.Errorf("queryset: row has %d values, model %s declares %d fields", len(values), meta.Name(), len(fields))
	}
	for i, f := range fields {
		if err := setField(val, f, values[i]); err != nil {
			return err
		}
	}

	if len(related) == 0 {
		return nil
	}
	offset := len(fields)
	for i, fk := range meta.ForeignKeys() {
		rmeta := related[i]
		chunk := values[offset : offset+len(rmeta.Fields())]
		offset += len(rmeta.Fields())

		// A NULL related primary key means the outer join matched
		// nothing; the holder stays nil.
		pkIndex := indexOf(rmeta, rmeta.PrimaryKey().Name)
		if chunk[pkIndex] == nil {
			continue
		}
		sf, ok := model.FindRelationField(val.Type(), fk)
		if !ok {
			continue
		}
		holder := reflect.New(sf.Type.Elem())
		if err := materialize(rmeta, nil, chunk, holder.Interface()); err != nil {
			return err
		}
		val.FieldByIndex(sf.Index).Set(holder)
	}
	return nil
}

func indexOf(meta *model.Meta, field string) int {
	for i, f := range meta.Fields() {
		if f.Name == field {
			return i
		}
	}
	return 0
}

// setField converts a driver value and assigns it to the struct field
// backing the model field. NULL leaves the field at its zero value, or
// nil for pointer fields.
func setField(structVal reflect.Value, f model.Field, value interface{}) error {
	sf, ok := model.FindStructField(structVal.Type(), f.Name)
	if !ok {
		return nil
	}
	fieldVal := structVal.FieldByIndex(sf.Index)
	if !fieldVal.CanSet() {
		return nil
	}

	if value == nil {
		fieldVal.Set(reflect.Zero(fieldVal.Type()))
		return nil
	}

	canonical, err := convert(f, value)
	if err != nil {
		return err
	}

	if fieldVal.Kind() == reflect.Ptr {
		elem := reflect.New(fieldVal.Type().Elem())
		if err := assign(elem.Elem(), f, canonical); err != nil {
			return err
		}
		fieldVal.Set(elem)
		return nil
	}
	return assign(fieldVal, f, canonical)
}

func assign(fieldVal reflect.Value, f model.Field, canonical interface{}) error {
	switch v := canonical.(type) {
	case int64:
		switch fieldVal.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fieldVal.SetInt(v)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if v >= 0 {
				fieldVal.SetUint(uint64(v))
				return nil
			}
		case reflect.Float32, reflect.Float64:
			fieldVal.SetFloat(float64(v))
			return nil
		}
	case float64:
		if fieldVal.Kind() == reflect.Float32 || fieldVal.Kind() == reflect.Float64 {
			fieldVal.SetFloat(v)
			return nil
		}
	case string:
		if fieldVal.Kind() == reflect.String {
			fieldVal.SetString(v)
			return nil
		}
	case bool:
		if fieldVal.Kind() == reflect.Bool {
			fieldVal.SetBool(v)
			return nil
		}
	case time.Time:
		if fieldVal.Type() == reflect.TypeOf(time.Time{}) {
			fieldVal.Set(reflect.ValueOf(v))
			return nil
		}
	case []byte:
		if fieldVal.Kind() == reflect.Slice && fieldVal.Type().Elem().Kind() == reflect.Uint8 {
			fieldVal.SetBytes(v)
			return nil
		}
	}
	return &TypeMismatchError{Field: f.Name, Type: f.Type, Value: canonical}
}

// datetimeLayouts are tried in order when a backend hands timestamps
// back as text.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// convert widens a driver value into the canonical Go representation
// of the declared field type: int64, string, bool, time.Time, float64
// or []byte.
func convert(f model.Field, value interface{}) (interface{}, error) {
	mismatch := func() (interface{}, error) {
		return nil, &TypeMismatchError{Field: f.Name, Type: f.Type, Value: value}
	}

	switch f.Type {
	case model.Int:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case []byte:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return mismatch()
			}
			return n, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return mismatch()
			}
			return n, nil
		}
		return mismatch()

	case model.Text:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
		return mismatch()

	case model.Bool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case []byte:
			// MySQL's text protocol hands booleans back as "0"/"1".
			b, err := strconv.ParseBool(string(v))
			if err != nil {
				return mismatch()
			}
			return b, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return mismatch()
			}
			return b, nil
		}
		return mismatch()

	case model.Double:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case []byte:
			x, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return mismatch()
			}
			return x, nil
		}
		return mismatch()

	case model.DateTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case int64:
			return time.Unix(v, 0).UTC(), nil
		case string:
			return parseDatetime(f, v)
		case []byte:
			return parseDatetime(f, string(v))
		}
		return mismatch()

	case model.Blob:
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
		return mismatch()
	}
	return mismatch()
}

func parseDatetime(f model.Field, s string) (interface{}, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, &TypeMismatchError{Field: f.Name, Type: f.Type, Value: s}
}
