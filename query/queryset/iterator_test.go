package queryset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillorm/quill/query/executor"
)

func TestIteratorWalk(t *testing.T) {
	exec := &fakeExec{results: []*executor.Rows{
		{Columns: []string{"count"}, Values: [][]interface{}{{int64(2)}}},
		userRows(
			[]interface{}{int64(1), "foo", "bar"},
			[]interface{}{int64(2), "doe", "deo"},
		),
	}}
	qs := newUserSet(t, exec)

	it := qs.Begin()
	assert.Len(t, exec.queries, 0, "building an iterator is free")

	end, err := qs.End(context.Background())
	require.NoError(t, err)

	var names []string
	for ; !it.Equal(end); it = it.Next() {
		var u user
		require.NoError(t, it.Scan(context.Background(), &u))
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"foo", "doe"}, names)
	assert.Len(t, exec.queries, 2, "one count, one window fetch")
}

func TestIteratorEquality(t *testing.T) {
	qs := newUserSet(t, &fakeExec{})

	a := qs.Begin()
	b := qs.Begin()
	assert.True(t, a.Equal(b))
	assert.False(t, a.Next().Equal(b))
	assert.True(t, a.Next().Prev().Equal(b))
	assert.True(t, a.Advance(3).Equal(b.Next().Next().Next()))
	assert.Equal(t, 3, a.Advance(3).Offset())
}

func TestIteratorEmptyWindow(t *testing.T) {
	exec := &fakeExec{results: []*executor.Rows{{
		Columns: []string{"count"},
		Values:  [][]interface{}{{int64(0)}},
	}}}
	qs := newUserSet(t, exec)

	end, err := qs.End(context.Background())
	require.NoError(t, err)
	assert.True(t, qs.Begin().Equal(end))
}
