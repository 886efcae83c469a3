package file

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJSONSearchTermGateway(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "patterns.json")
	gateway := NewJSONSearchTermGateway(path)

	terms, err := gateway.Load(ctx)
	if err != nil || len(terms) != 0 {
		t.Fatalf("Load() on missing file = %v, %v", terms, err)
	}

	want := []string{"london", "sao paulo"}
	if err := gateway.Save(ctx, want); err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(path)
	if string(raw) != `["london","sao paulo"]` {
		t.Errorf("file content = %s", raw)
	}

	got, err := gateway.Load(ctx)
	if err != nil || !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, %v", got, err)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestJSONSearchTermGatewayCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o644)

	if _, err := NewJSONSearchTermGateway(path).Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestJSONSearchTermGatewaySaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	if err := NewJSONSearchTermGateway(path).Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "[]" {
		t.Errorf("file content = %s", raw)
	}
}
