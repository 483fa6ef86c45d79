package model

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// RegisterStruct builds a model descriptor from a tagged struct and
// registers it. Reflection runs once here, at registration time; the
// query path only consumes the resulting Meta.
//
// Tags take the form `quill:"column[,pk][,fk=Model][,maxlen=N]"`. An
// empty column part falls back to the snake-cased Go field name. Fields
// tagged `quill:"-"` and untagged struct-pointer fields (relation
// holders filled by eager loading) are skipped.
func (r *Registry) RegisterStruct(name, table string, prototype interface{}) (*Meta, error) {
	typ := reflect.TypeOf(prototype)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model %s: prototype must be a struct, got %T", name, prototype)
	}

	b := r.Model(name).Table(table)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("quill")
		if tag == "-" {
			continue
		}
		if tag == "" && isRelationHolder(sf.Type) {
			continue
		}

		column, opts := splitTag(tag)
		if column == "" {
			column = snakeCase(sf.Name)
		}
		ft, err := fieldTypeOf(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("model %s: field %s: %w", name, sf.Name, err)
		}
		b.field(column, ft)
		for _, opt := range opts {
			switch {
			case opt == "pk":
				b.PrimaryKey()
			case strings.HasPrefix(opt, "fk="):
				b.References(strings.TrimPrefix(opt, "fk="))
			case strings.HasPrefix(opt, "maxlen="):
				n, err := strconv.Atoi(strings.TrimPrefix(opt, "maxlen="))
				if err != nil {
					return nil, fmt.Errorf("model %s: field %s: bad maxlen: %w", name, sf.Name, err)
				}
				b.MaxLength(n)
			default:
				return nil, fmt.Errorf("model %s: field %s: unknown tag option %q", name, sf.Name, opt)
			}
		}
	}
	return b.Register()
}

// MustRegisterStruct is RegisterStruct panicking on error, for
// registration at program start.
func (r *Registry) MustRegisterStruct(name, table string, prototype interface{}) *Meta {
	meta, err := r.RegisterStruct(name, table, prototype)
	if err != nil {
		panic(err)
	}
	return meta
}

func splitTag(tag string) (column string, opts []string) {
	parts := strings.Split(tag, ",")
	if len(parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parts[0]), parts[1:]
}

var timeType = reflect.TypeOf(time.Time{})

func isRelationHolder(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct && t.Elem() != timeType
}

func fieldTypeOf(t reflect.Type) (FieldType, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType {
		return DateTime, nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return Int, nil
	case reflect.String:
		return Text, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Float32, reflect.Float64:
		return Double, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Blob, nil
		}
	}
	return 0, fmt.Errorf("unmappable Go type %s", t)
}

// FindStructField locates the struct field backing a model field: first
// by quill tag, then by exact name, then case-insensitively ignoring
// underscores. The zero StructField is returned when nothing matches.
func FindStructField(typ reflect.Type, field string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if column, _ := splitTag(sf.Tag.Get("quill")); column == field {
			return sf, true
		}
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.Name == field {
			return sf, true
		}
	}
	want := normalizeName(field)
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.IsExported() && normalizeName(sf.Name) == want {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// FindRelationField locates the struct-pointer field holding the eager
// load target of a foreign key: a holder whose name matches the key
// with its id suffix stripped ("author_id" pairs with Author), or
// failing that, one matching the target model name.
func FindRelationField(typ reflect.Type, fk Field) (reflect.StructField, bool) {
	base := strings.TrimSuffix(normalizeName(fk.Name), "id")
	var fallback reflect.StructField
	var haveFallback bool
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() || !isRelationHolder(sf.Type) || sf.Tag.Get("quill") != "" {
			continue
		}
		got := normalizeName(sf.Name)
		if base != "" && got == base {
			return sf, true
		}
		if got == normalizeName(fk.ForeignKey) && !haveFallback {
			fallback, haveFallback = sf, true
		}
	}
	return fallback, haveFallback
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
