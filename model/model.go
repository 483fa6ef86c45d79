// Package model describes the shape of persisted models: typed fields,
// their SQL column mappings and foreign-key relations. A Registry built
// from these descriptors drives SQL generation and row materialization;
// it is populated once at startup and read-only afterwards.
package model

import "fmt"

// FieldType is the declared type of a model field.
type FieldType int

const (
	Int FieldType = iota
	Text
	Bool
	DateTime
	Double
	Blob
)

// String returns the type name.
func (t FieldType) String() string {
	switch t {
	case Int:
		return "Int"
	case Text:
		return "Text"
	case Bool:
		return "Bool"
	case DateTime:
		return "DateTime"
	case Double:
		return "Double"
	case Blob:
		return "Blob"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field describes a single model field. Fields are immutable once their
// model has been registered.
type Field struct {
	Name       string
	Column     string
	Type       FieldType
	PrimaryKey bool
	// ForeignKey names the target model when this field references
	// another model's primary key. Empty for plain fields.
	ForeignKey string
	// MaxLength is advisory for Text fields; zero means unbounded.
	MaxLength int
}

// Meta is the immutable descriptor of one registered model.
type Meta struct {
	name   string
	table  string
	fields []Field
	byName map[string]int
	pk     int
}

// Name returns the model name.
func (m *Meta) Name() string { return m.name }

// Table returns the SQL table name.
func (m *Meta) Table() string { return m.table }

// Fields returns the fields in declaration order. The returned slice
// must not be modified.
func (m *Meta) Fields() []Field { return m.fields }

// Field looks up a field by name.
func (m *Meta) Field(name string) (Field, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// Column resolves a field name to its SQL column name. Unknown field
// names are programmer errors and reported loudly.
func (m *Meta) Column(field string) (string, error) {
	f, ok := m.Field(field)
	if !ok {
		return "", fmt.Errorf("model %s: unknown field %q", m.name, field)
	}
	return f.Column, nil
}

// PrimaryKey returns the primary-key field.
func (m *Meta) PrimaryKey() Field { return m.fields[m.pk] }

// ForeignKeys returns the foreign-key fields in declaration order.
func (m *Meta) ForeignKeys() []Field {
	var fks []Field
	for _, f := range m.fields {
		if f.ForeignKey != "" {
			fks = append(fks, f)
		}
	}
	return fks
}

// FieldNames returns the field names in declaration order.
func (m *Meta) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}
