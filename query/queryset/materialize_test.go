package queryset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/model"
)

type record struct {
	ID      int64     `quill:"id,pk"`
	Label   string    `quill:"label"`
	Active  bool      `quill:"active"`
	Score   float64   `quill:"score"`
	Created time.Time `quill:"created"`
	Payload []byte    `quill:"payload"`
	Note    *string   `quill:"note"`
}

func recordMeta(t *testing.T) *model.Meta {
	t.Helper()
	meta, err := model.NewRegistry().RegisterStruct("Record", "record", record{})
	require.NoError(t, err)
	return meta
}

func TestMaterializeConvertsDriverTypes(t *testing.T) {
	meta := recordMeta(t)
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	// Each value uses an alternate representation some driver hands
	// back: ints and doubles as text, bools as ints, datetimes as epoch
	// seconds, blobs as strings.
	var r record
	err := materialize(meta, nil, []interface{}{
		[]byte("42"),
		[]byte("hello"),
		int64(1),
		[]byte("3.5"),
		created.Unix(),
		"blob",
		"remember",
	}, &r)
	require.NoError(t, err)

	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, "hello", r.Label)
	assert.True(t, r.Active)
	assert.Equal(t, 3.5, r.Score)
	assert.True(t, created.Equal(r.Created))
	assert.Equal(t, []byte("blob"), r.Payload)
	require.NotNil(t, r.Note)
	assert.Equal(t, "remember", *r.Note)
}

func TestMaterializeNulls(t *testing.T) {
	meta := recordMeta(t)

	r := record{Label: "stale", Note: new(string)}
	err := materialize(meta, nil, []interface{}{
		int64(1), nil, nil, nil, nil, nil, nil,
	}, &r)
	require.NoError(t, err)

	assert.Equal(t, "", r.Label, "NULL resets to the zero value")
	assert.False(t, r.Active)
	assert.True(t, r.Created.IsZero())
	assert.Nil(t, r.Note, "NULL resets pointer fields to nil")
}

func TestMaterializeDatetimeText(t *testing.T) {
	meta := recordMeta(t)

	for _, s := range []string{
		"2024-05-01T12:30:00Z",
		"2024-05-01 12:30:00",
	} {
		var r record
		err := materialize(meta, nil, []interface{}{
			int64(1), "x", true, 0.0, s, nil, nil,
		}, &r)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, r.Created.Year(), s)
		assert.Equal(t, 30, r.Created.Minute(), s)
	}
}

func TestMaterializeBoolText(t *testing.T) {
	meta := recordMeta(t)

	cases := []struct {
		value interface{}
		want  bool
	}{
		{[]byte("1"), true},
		{[]byte("0"), false},
		{"1", true},
		{"false", false},
	}
	for _, tc := range cases {
		var r record
		err := materialize(meta, nil, []interface{}{
			int64(1), "x", tc.value, 0.0, time.Now(), nil, nil,
		}, &r)
		require.NoError(t, err, "%v", tc.value)
		assert.Equal(t, tc.want, r.Active, "%v", tc.value)
	}

	var r record
	err := materialize(meta, nil, []interface{}{
		int64(1), "x", []byte("maybe"), 0.0, time.Now(), nil, nil,
	}, &r)
	var tm *TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "active", tm.Field)
}

func TestMaterializeTypeMismatch(t *testing.T) {
	meta := recordMeta(t)

	var r record
	err := materialize(meta, nil, []interface{}{
		"not a number", "x", true, 0.0, time.Now(), nil, nil,
	}, &r)

	var tm *TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "id", tm.Field)
	assert.Equal(t, model.Int, tm.Type)
}

func TestMaterializeTargetValidation(t *testing.T) {
	meta := recordMeta(t)

	assert.Error(t, materialize(meta, nil, []interface{}{int64(1)}, nil))
	assert.Error(t, materialize(meta, nil, []interface{}{int64(1)}, record{}))

	var r record
	assert.Error(t, materialize(meta, nil, []interface{}{int64(1)}, &r),
		"short rows are rejected")
}

func TestMaterializeRelatedNullJoin(t *testing.T) {
	reg := model.NewRegistry()
	_, err := reg.RegisterStruct("User", "user", user{})
	require.NoError(t, err)
	postMeta, err := reg.RegisterStruct("Post", "post", post{})
	require.NoError(t, err)
	userMeta, err := reg.Get("User")
	require.NoError(t, err)

	var p post
	err = materialize(postMeta, []*model.Meta{userMeta}, []interface{}{
		int64(5), "orphan", nil,
		nil, nil, nil, // outer join matched nothing
	}, &p)
	require.NoError(t, err)

	assert.Equal(t, "orphan", p.Title)
	assert.Nil(t, p.AuthorID)
	assert.Nil(t, p.Author, "holder stays nil when the join is empty")
}
