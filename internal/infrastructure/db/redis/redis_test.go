package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConfigOptions_Defaults(t *testing.T) {
	opts := Config{Addr: "cache:6379"}.options()

	if opts.PoolSize != defaultPoolSize || opts.ClientName != "cards-api" {
		t.Fatalf("unexpected defaults: pool=%d name=%q", opts.PoolSize, opts.ClientName)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout || opts.WriteTimeout != defaultTimeout {
		t.Fatalf("expected %v timeouts, got %+v", defaultTimeout, opts)
	}
}

func TestConfigOptions_Overrides(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "s3cret", DB: 3, PoolSize: 4, Timeout: 500 * time.Millisecond}.options()

	if opts.Password != "s3cret" || opts.DB != 3 || opts.PoolSize != 4 || opts.ReadTimeout != 500*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", opts)
	}
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	if err == nil || !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Fatalf("expected a ping error naming the address, got %v", err)
	}
}
