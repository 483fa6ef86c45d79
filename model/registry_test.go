package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Register(t *testing.T) {
	reg := NewRegistry()

	meta, err := reg.Model("User").Table("user").
		Int("id").PrimaryKey().
		Text("username").MaxLength(255).
		Text("password").Column("pwd").
		Register()
	require.NoError(t, err)

	assert.Equal(t, "User", meta.Name())
	assert.Equal(t, "user", meta.Table())
	assert.Equal(t, []string{"id", "username", "password"}, meta.FieldNames())
	assert.Equal(t, "id", meta.PrimaryKey().Name)

	col, err := meta.Column("password")
	require.NoError(t, err)
	assert.Equal(t, "pwd", col)

	_, err = meta.Column("nope")
	assert.Error(t, err)

	f, ok := meta.Field("username")
	require.True(t, ok)
	assert.Equal(t, Text, f.Type)
	assert.Equal(t, 255, f.MaxLength)
}

func TestBuilder_Errors(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Model("NoPK").Int("id").Register()
	assert.ErrorContains(t, err, "no primary key")

	_, err = reg.Model("TwoPK").Int("a").PrimaryKey().Int("b").PrimaryKey().Register()
	assert.ErrorContains(t, err, "multiple primary keys")

	_, err = reg.Model("Dup").Int("x").PrimaryKey().Int("x").Register()
	assert.ErrorContains(t, err, "duplicate field")

	_, err = reg.Model("Empty").Register()
	assert.ErrorContains(t, err, "no fields")

	_, err = reg.Model("User").Int("id").PrimaryKey().Register()
	require.NoError(t, err)
	_, err = reg.Model("User").Int("id").PrimaryKey().Register()
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistry_ReferencesTo(t *testing.T) {
	reg := NewRegistry()
	reg.Model("User").Int("id").PrimaryKey().Text("username").MustRegister()
	reg.Model("Post").Table("post").
		Int("id").PrimaryKey().
		Int("author_id").References("User").
		Text("title").
		MustRegister()
	reg.Model("Comment").
		Int("id").PrimaryKey().
		Int("post_id").References("Post").
		Int("user_id").References("User").
		MustRegister()

	refs := reg.ReferencesTo("User")
	require.Len(t, refs, 2)
	assert.Equal(t, "Comment", refs[0].Meta.Name())
	assert.Equal(t, "user_id", refs[0].Field.Name)
	assert.Equal(t, "Post", refs[1].Meta.Name())
	assert.Equal(t, "author_id", refs[1].Field.Name)

	assert.Empty(t, reg.ReferencesTo("Comment"))
}

type taggedUser struct {
	ID        int       `quill:"id,pk"`
	Username  string    `quill:"username,maxlen=255"`
	Active    bool      ``
	Score     float64   `quill:"score"`
	Avatar    []byte    `quill:"avatar"`
	CreatedAt time.Time ``
	ignored   string
	Skipped   string `quill:"-"`
}

func TestRegisterStruct(t *testing.T) {
	reg := NewRegistry()
	meta, err := reg.RegisterStruct("User", "user", taggedUser{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "username", "active", "score", "avatar", "created_at"}, meta.FieldNames())
	assert.Equal(t, "id", meta.PrimaryKey().Name)

	f, _ := meta.Field("created_at")
	assert.Equal(t, DateTime, f.Type)
	f, _ = meta.Field("avatar")
	assert.Equal(t, Blob, f.Type)
	f, _ = meta.Field("username")
	assert.Equal(t, 255, f.MaxLength)
}

type taggedPost struct {
	ID       int    `quill:"id,pk"`
	AuthorID int    `quill:"author_id,fk=User"`
	Title    string `quill:"title"`
	Author   *taggedUser
}

func TestRegisterStruct_ForeignKey(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.RegisterStruct("User", "user", taggedUser{})
	require.NoError(t, err)
	meta, err := reg.RegisterStruct("Post", "post", &taggedPost{})
	require.NoError(t, err)

	// The relation holder is not a column.
	assert.Equal(t, []string{"id", "author_id", "title"}, meta.FieldNames())

	fks := meta.ForeignKeys()
	require.Len(t, fks, 1)
	assert.Equal(t, "User", fks[0].ForeignKey)
}
