package client

import (
	"context"
	"time"

	"github.com/quillorm/quill/internal/debug"
	"github.com/quillorm/quill/query/executor"
	"github.com/quillorm/quill/query/sqlgen"
)

// QueryEvent describes one statement execution as it flows through the
// middleware chain. Duration, Error and End are filled in after the
// innermost handler runs.
type QueryEvent struct {
	Query    string
	Args     []interface{}
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware intercepts statement execution. Call next to proceed down
// the chain; skipping it cancels the statement.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends a middleware. Every statement executed by query sets
// created after this call flows through it.
func (c *Client) Use(middleware Middleware) {
	base := c.exec
	if wrapped, ok := base.(*middlewareExecutor); ok {
		wrapped.middlewares = append(wrapped.middlewares, middleware)
		return
	}
	c.exec = &middlewareExecutor{
		next:        base,
		middlewares: []Middleware{middleware},
	}
}

// middlewareExecutor decorates an Executor with the middleware chain.
type middlewareExecutor struct {
	next        executor.Executor
	middlewares []Middleware
}

func (m *middlewareExecutor) Query(ctx context.Context, q *sqlgen.Query) (*executor.Rows, error) {
	var rows *executor.Rows
	err := m.run(ctx, q, func() error {
		var err error
		rows, err = m.next.Query(ctx, q)
		return err
	})
	return rows, err
}

func (m *middlewareExecutor) Exec(ctx context.Context, q *sqlgen.Query) (int64, error) {
	var affected int64
	err := m.run(ctx, q, func() error {
		var err error
		affected, err = m.next.Exec(ctx, q)
		return err
	})
	return affected, err
}

func (m *middlewareExecutor) run(ctx context.Context, q *sqlgen.Query, exec func() error) error {
	event := &QueryEvent{
		Query: q.SQL,
		Args:  q.Args,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(m.middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}
		middleware := m.middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement through the debug logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil {
			debug.Error("statement failed", "sql", event.Query, "err", err)
		} else {
			debug.Debug("statement completed", "sql", event.Query, "duration", event.Duration)
		}
		return err
	}
}

// TimingMiddleware reports each statement's execution time.
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware invokes onError for every failed statement.
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}
