package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/model"
	"github.com/quillorm/quill/query/where"
)

type sqliteUser struct {
	ID       int64  `quill:"id,pk"`
	Username string `quill:"username,maxlen=255"`
	Password string `quill:"password,maxlen=128"`
}

type sqlitePost struct {
	ID       int64  `quill:"id,pk"`
	Title    string `quill:"title"`
	AuthorID *int64 `quill:"author_id,fk=User"`
	Author   *sqliteUser
}

// newSQLiteClient opens a file-backed SQLite database. A shared file is
// required because every pool connection to ":memory:" gets its own
// empty database.
func newSQLiteClient(t *testing.T) *Client {
	t.Helper()

	reg := model.NewRegistry()
	reg.MustRegisterStruct("User", "user", sqliteUser{})
	reg.MustRegisterStruct("Post", "post", sqlitePost{})

	path := filepath.Join(t.TempDir(), "quill.db")
	c, err := New("sqlite", path, reg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Disconnect(context.Background()) })

	ctx := context.Background()
	_, err = c.DB().ExecContext(ctx, `CREATE TABLE user (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(255),
		password VARCHAR(128)
	)`)
	require.NoError(t, err)
	_, err = c.DB().ExecContext(ctx, `CREATE TABLE post (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		author_id INTEGER REFERENCES user(id)
	)`)
	require.NoError(t, err)
	return c
}

func seedUsers(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.Save(ctx, "User", &sqliteUser{Username: "foo", Password: "bar"}))
	require.NoError(t, c.Save(ctx, "User", &sqliteUser{Username: "baz", Password: "qux"}))
}

func TestSQLiteRoundTrip(t *testing.T) {
	c := newSQLiteClient(t)
	ctx := context.Background()
	seedUsers(t, c)

	qs, err := c.QuerySet("User")
	require.NoError(t, err)

	var u sqliteUser
	require.NoError(t, qs.Get(ctx, where.C("username").Eq("foo"), &u))
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "bar", u.Password)

	var last sqliteUser
	require.NoError(t, qs.OrderBy("-id").At(ctx, 0, &last))
	assert.Equal(t, int64(2), last.ID)
	assert.Equal(t, "baz", last.Username)

	n, err := qs.Limit(1, 1).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	vals, err := qs.Filter(where.C("username").Eq("foo")).Values(ctx, "username")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, "foo", vals[0]["username"])

	// A predicate and its own exclusion never overlap.
	w := where.C("id").Gt(int64(0))
	n, err = qs.Filter(w).Exclude(w).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSQLiteSaveUpdatesExistingRow(t *testing.T) {
	c := newSQLiteClient(t)
	ctx := context.Background()
	seedUsers(t, c)

	require.NoError(t, c.Save(ctx, "User", &sqliteUser{ID: 1, Username: "foo", Password: "changed"}))

	qs, err := c.QuerySet("User")
	require.NoError(t, err)
	var u sqliteUser
	require.NoError(t, qs.Get(ctx, where.C("id").Eq(int64(1)), &u))
	assert.Equal(t, "changed", u.Password)
}

func TestSQLiteUpdateAffectsMatches(t *testing.T) {
	c := newSQLiteClient(t)
	ctx := context.Background()
	seedUsers(t, c)

	qs, err := c.QuerySet("User")
	require.NoError(t, err)

	affected, err := qs.Filter(where.C("username").Eq("baz")).
		Update(ctx, map[string]interface{}{"password": "reset"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var u sqliteUser
	require.NoError(t, qs.Get(ctx, where.C("username").Eq("baz"), &u))
	assert.Equal(t, "reset", u.Password)
}

func TestSQLiteRemoveClearsReferences(t *testing.T) {
	c := newSQLiteClient(t)
	ctx := context.Background()
	seedUsers(t, c)

	one := int64(1)
	require.NoError(t, c.Save(ctx, "Post", &sqlitePost{Title: "hello", AuthorID: &one}))

	posts, err := c.QuerySet("Post")
	require.NoError(t, err)

	var p sqlitePost
	require.NoError(t, posts.SelectRelated().At(ctx, 0, &p))
	require.NotNil(t, p.Author)
	assert.Equal(t, "foo", p.Author.Username)

	users, err := c.QuerySet("User")
	require.NoError(t, err)
	require.NoError(t, users.Filter(where.C("username").Eq("foo")).Remove(ctx))

	n, err := users.All().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var orphan sqlitePost
	require.NoError(t, posts.SelectRelated().At(ctx, 0, &orphan))
	assert.Nil(t, orphan.AuthorID)
	assert.Nil(t, orphan.Author)
}
