// Package redistest provides an in-process Redis client for tests.
//
// [Client] implements [redis.UniversalClient] by embedding the interface and
// overriding the string commands the glycodraw backends issue (GET, SET,
// DEL). Any other command panics on the nil embedded client, so a backend
// that starts using a new command fails its tests loudly.
package redistest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	data     []byte
	deadline time.Time // zero means no expiry
}

// Client is a goroutine-safe key/value double with a controllable clock.
type Client struct {
	redis.UniversalClient

	mu     sync.Mutex
	data   map[string]entry
	now    time.Time
	fail   []error
	closed bool
}

var _ redis.UniversalClient = (*Client)(nil)

// New returns an empty client whose clock starts at the current time.
func New() *Client {
	return &Client{data: make(map[string]entry), now: time.Now()}
}

// Advance moves the client clock forward, expiring keys whose TTL elapses.
func (c *Client) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FailNext makes the next len(errs) commands return the given errors in
// order.
func (c *Client) FailNext(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = append(c.fail, errs...)
}

// Len returns the number of live keys.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if _, ok := c.lookup(k); ok {
			n++
		}
	}
	return n
}

// TTL returns the remaining lifetime of key, or -1 when it has none.
func (c *Client) TTL(_ context.Context, key string) *redis.DurationCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	switch {
	case !ok:
		return redis.NewDurationResult(-2, nil)
	case e.deadline.IsZero():
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(e.deadline.Sub(c.now), nil)
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) Ping(context.Context) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextErr(); err != nil {
		return redis.NewStatusResult("", err)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (c *Client) Get(_ context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextErr(); err != nil {
		return redis.NewStringResult("", err)
	}
	e, ok := c.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(e.data), nil)
}

func (c *Client) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextErr(); err != nil {
		return redis.NewStatusResult("", err)
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = append([]byte(nil), v...)
	case string:
		data = []byte(v)
	default:
		data = []byte(fmt.Sprint(v))
	}
	e := entry{data: data}
	if expiration > 0 {
		e.deadline = c.now.Add(expiration)
	}
	c.data[key] = e
	return redis.NewStatusResult("OK", nil)
}

func (c *Client) Del(_ context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.nextErr(); err != nil {
		return redis.NewIntResult(0, err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := c.lookup(k); ok {
			n++
		}
		delete(c.data, k)
	}
	return redis.NewIntResult(n, nil)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// lookup returns the live entry for key, dropping it once expired.
func (c *Client) lookup(key string) (entry, bool) {
	e, ok := c.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.deadline.IsZero() && !c.now.Before(e.deadline) {
		delete(c.data, key)
		return entry{}, false
	}
	return e, true
}

func (c *Client) nextErr() error {
	if len(c.fail) == 0 {
		return nil
	}
	err := c.fail[0]
	c.fail = c.fail[1:]
	return err
}
