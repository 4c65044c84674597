package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/matzehuels/glycodraw/internal/redistest"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	client := redistest.New()
	c := NewRedisCache(client)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get(k) = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}

	if err := c.Close(); err != nil || !client.Closed() {
		t.Errorf("Close() = %v, closed %v", err, client.Closed())
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	client := redistest.New()
	c := NewRedisCache(client)

	if err := c.Set(ctx, "short", []byte("a"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("b"), 0); err != nil {
		t.Fatal(err)
	}
	client.Advance(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without TTL expired")
	}
}

func TestRedisCacheRetries(t *testing.T) {
	old := backoff
	backoff = time.Millisecond
	defer func() { backoff = old }()
	ctx := context.Background()

	reset := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}
	permanent := errors.New("WRONGTYPE")

	tests := []struct {
		name    string
		fail    []error
		wantErr error
	}{
		{"transient", []error{reset}, nil},
		{"gives up", []error{reset, reset, reset}, reset},
		{"permanent", []error{permanent}, permanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := redistest.New()
			c := NewRedisCache(client)
			client.FailNext(tt.fail...)

			err := c.Set(ctx, "k", []byte("v"), time.Hour)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set() = %v, want %v", err, tt.wantErr)
			}
			_, hit, _ := c.Get(ctx, "k")
			if want := tt.wantErr == nil; hit != want {
				t.Errorf("stored = %v, want %v", hit, want)
			}
		})
	}
}
