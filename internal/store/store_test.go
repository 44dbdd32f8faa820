package store

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))

	sq, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if err := sq.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := st.Set(ctx, KeyToken, "tok123"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := st.Get(ctx, KeyToken)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != "tok123" {
				t.Errorf("Get = %q, want %q", got, "tok123")
			}

			// Overwrite.
			if err := st.Set(ctx, KeyToken, "tok456"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _ = st.Get(ctx, KeyToken)
			if got != "tok456" {
				t.Errorf("Get after overwrite = %q, want %q", got, "tok456")
			}

			if err := st.Delete(ctx, KeyToken); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			got, err = st.Get(ctx, KeyToken)
			if err != nil {
				t.Fatalf("Get after delete: %v", err)
			}
			if got != "" {
				t.Errorf("Get after delete = %q, want empty", got)
			}
		})
	}
}

func TestStoreMissingKey(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := st.Get(context.Background(), "no.such.key")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != "" {
				t.Errorf("Get missing key = %q, want empty", got)
			}
		})
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Delete(ctx, "no.such.key"); err != nil {
				t.Fatalf("Delete missing key: %v", err)
			}
			if err := st.Delete(ctx, "no.such.key"); err != nil {
				t.Fatalf("Delete twice: %v", err)
			}
		})
	}
}
