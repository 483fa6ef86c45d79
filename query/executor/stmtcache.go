package executor

import (
	"container/list"
	"context"
	"database/sql"
	"sync"
)

const defaultStmtCacheSize = 128

// stmtCache is a bounded LRU of prepared statements keyed by SQL text.
// Evicted and superseded statements are closed.
type stmtCache struct {
	mu      sync.Mutex
	db      *sql.DB
	maxSize int
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	hits    int64
	misses  int64
}

type stmtEntry struct {
	sql  string
	stmt *sql.Stmt
}

func newStmtCache(db *sql.DB, maxSize int) *stmtCache {
	return &stmtCache{
		db:      db,
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *stmtCache) get(ctx context.Context, query string) (*sql.Stmt, error) {
	c.mu.Lock()
	if el, ok := c.entries[query]; ok {
		c.order.MoveToFront(el)
		c.hits++
		stmt := el.Value.(*stmtEntry).stmt
		c.mu.Unlock()
		return stmt, nil
	}
	c.misses++
	c.mu.Unlock()

	// Prepare outside the lock; a racing prepare of the same text
	// just loses and gets closed.
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[query]; ok {
		c.order.MoveToFront(el)
		stmt.Close()
		return el.Value.(*stmtEntry).stmt, nil
	}
	c.entries[query] = c.order.PushFront(&stmtEntry{sql: query, stmt: stmt})
	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		entry := oldest.Value.(*stmtEntry)
		c.order.Remove(oldest)
		delete(c.entries, entry.sql)
		entry.stmt.Close()
	}
	return stmt, nil
}

func (c *stmtCache) stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *stmtCache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for el := c.order.Front(); el != nil; el = el.Next() {
		if err := el.Value.(*stmtEntry).stmt.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return first
}
