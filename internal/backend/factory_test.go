package backend

import (
	"context"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid file", Config{Type: FileBackend, DataDir: "./data"}, false},
		{"valid sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "./data/app.db"}, false},
		{"unknown type", Config{Type: "memory"}, true},
		{"file without dir", Config{Type: FileBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
	}
	for _, tc := range cases {
		err := tc.config.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: Validate() error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestFactoryCreatesFileBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.Create(Config{Type: FileBackend, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	ctx := context.Background()
	if err := result.Store.Set(ctx, "sales", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := result.Store.Get(ctx, "sales")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("round trip: got %q", got)
	}
}

func TestFactoryCreatesSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.Create(Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "app.db"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must return a cleanup func")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.Create(Config{Type: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}
