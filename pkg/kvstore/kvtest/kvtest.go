// Package kvtest provides a redis-backed KVStore for tests.
package kvtest

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
)

// New returns a store backed by a fresh miniredis server that is torn down
// with the test.
func New(t testing.TB) *kvstore.Redis {
	t.Helper()

	srv := miniredis.RunT(t)
	kv, err := kvstore.NewRedis(context.Background(), srv.Addr(), "", 0)
	if err != nil {
		t.Fatalf("connecting to miniredis: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}
