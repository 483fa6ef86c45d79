package model

import (
	"fmt"
	"sort"
)

// Registry holds the metadata of every registered model. It is an
// explicit dependency rather than process-global state: construct one
// at startup, register models, then share it read-only.
type Registry struct {
	models map[string]*Meta
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Meta)}
}

// Get returns the metadata for a registered model.
func (r *Registry) Get(name string) (*Meta, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not registered", name)
	}
	return m, nil
}

// Models returns the registered model names, sorted.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reference is a foreign-key edge pointing at some model.
type Reference struct {
	Meta  *Meta
	Field Field
}

// ReferencesTo enumerates every (model, field) pair whose foreign key
// targets the named model. Cascade deletion uses this to clear dangling
// references before removing rows.
func (r *Registry) ReferencesTo(name string) []Reference {
	var refs []Reference
	for _, owner := range r.Models() {
		m := r.models[owner]
		for _, f := range m.ForeignKeys() {
			if f.ForeignKey == name {
				refs = append(refs, Reference{Meta: m, Field: f})
			}
		}
	}
	return refs
}

// Model starts a fluent builder for a new model. The model becomes
// visible in the registry only after Register is called.
func (r *Registry) Model(name string) *Builder {
	return &Builder{registry: r, name: name, table: name}
}

func (r *Registry) add(m *Meta) error {
	if _, dup := r.models[m.name]; dup {
		return fmt.Errorf("model %q is already registered", m.name)
	}
	r.models[m.name] = m
	return nil
}

// Builder assembles a model descriptor field by field.
type Builder struct {
	registry *Registry
	name     string
	table    string
	fields   []Field
	err      error
}

// Table overrides the table name, which defaults to the model name.
func (b *Builder) Table(table string) *Builder {
	b.table = table
	return b
}

func (b *Builder) field(name string, t FieldType) *Builder {
	for _, f := range b.fields {
		if f.Name == name {
			b.fail(fmt.Errorf("duplicate field %q", name))
			return b
		}
	}
	b.fields = append(b.fields, Field{Name: name, Column: name, Type: t})
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = fmt.Errorf("model %s: %w", b.name, err)
	}
}

// Int declares an integer field.
func (b *Builder) Int(name string) *Builder { return b.field(name, Int) }

// Text declares a text field.
func (b *Builder) Text(name string) *Builder { return b.field(name, Text) }

// Bool declares a boolean field.
func (b *Builder) Bool(name string) *Builder { return b.field(name, Bool) }

// DateTime declares a timestamp field.
func (b *Builder) DateTime(name string) *Builder { return b.field(name, DateTime) }

// Double declares a floating-point field.
func (b *Builder) Double(name string) *Builder { return b.field(name, Double) }

// Blob declares a binary field.
func (b *Builder) Blob(name string) *Builder { return b.field(name, Blob) }

func (b *Builder) last() *Field {
	if len(b.fields) == 0 {
		b.fail(fmt.Errorf("field modifier before any field declaration"))
		return &Field{}
	}
	return &b.fields[len(b.fields)-1]
}

// Column sets the SQL column name of the last declared field.
func (b *Builder) Column(column string) *Builder {
	b.last().Column = column
	return b
}

// PrimaryKey marks the last declared field as the primary key.
func (b *Builder) PrimaryKey() *Builder {
	b.last().PrimaryKey = true
	return b
}

// References marks the last declared field as a foreign key to the
// named model's primary key.
func (b *Builder) References(target string) *Builder {
	b.last().ForeignKey = target
	return b
}

// MaxLength sets the advisory maximum length of the last declared field.
func (b *Builder) MaxLength(n int) *Builder {
	b.last().MaxLength = n
	return b
}

// Register finalizes the descriptor and adds it to the registry.
func (b *Builder) Register() (*Meta, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.fields) == 0 {
		return nil, fmt.Errorf("model %s: no fields declared", b.name)
	}
	pk := -1
	byName := make(map[string]int, len(b.fields))
	for i, f := range b.fields {
		byName[f.Name] = i
		if f.PrimaryKey {
			if pk >= 0 {
				return nil, fmt.Errorf("model %s: multiple primary keys", b.name)
			}
			pk = i
		}
	}
	if pk < 0 {
		return nil, fmt.Errorf("model %s: no primary key declared", b.name)
	}
	m := &Meta{
		name:   b.name,
		table:  b.table,
		fields: b.fields,
		byName: byName,
		pk:     pk,
	}
	if err := b.registry.add(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MustRegister is Register for startup wiring, panicking on error.
func (b *Builder) MustRegister() *Meta {
	m, err := b.Register()
	if err != nil {
		panic(err)
	}
	return m
}
