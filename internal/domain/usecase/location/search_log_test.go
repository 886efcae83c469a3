package location

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSearchLogAddIsIdempotent(t *testing.T) {
	searchLog := NewSearchLog(nil)

	if !searchLog.Add("london") {
		t.Fatal("first add must report a new term")
	}
	if searchLog.Add("london") {
		t.Fatal("second add must not report a new term")
	}
	if searchLog.Len() != 1 || !searchLog.Contains("london") {
		t.Fatalf("len = %d", searchLog.Len())
	}
}

func TestSearchLogPersist(t *testing.T) {
	gateway := &fakeSearchTermGateway{terms: []string{"paris"}}
	searchLog := NewSearchLog(gateway)
	ctx := context.Background()

	if count, err := searchLog.Load(ctx); err != nil || count != 1 {
		t.Fatalf("Load = %d, %v", count, err)
	}
	if written, _ := searchLog.Persist(ctx); written {
		t.Fatal("loading must not mark the log modified")
	}

	searchLog.Add("tokyo")
	searchLog.Add("berlin")
	written, err := searchLog.Persist(ctx)
	if err != nil || !written {
		t.Fatalf("Persist = %v, %v", written, err)
	}
	if want := []string{"berlin", "paris", "tokyo"}; !reflect.DeepEqual(gateway.saves[0], want) {
		t.Fatalf("saved %v, want %v", gateway.saves[0], want)
	}

	if written, _ := searchLog.Persist(ctx); written {
		t.Fatal("an unchanged log must not be written again")
	}
}

func TestSearchLogRetriesAfterFailedPersist(t *testing.T) {
	gateway := &fakeSearchTermGateway{err: errors.New("read-only filesystem")}
	searchLog := NewSearchLog(gateway)
	searchLog.Add("oslo")

	if _, err := searchLog.Persist(context.Background()); err == nil {
		t.Fatal("expected the save error")
	}

	gateway.err = nil
	written, err := searchLog.Persist(context.Background())
	if err != nil || !written {
		t.Fatalf("retry Persist = %v, %v", written, err)
	}
}

func TestSearchLogWithoutGateway(t *testing.T) {
	searchLog := NewSearchLog(nil)
	searchLog.Add("rome")

	if written, err := searchLog.Persist(context.Background()); written || err != nil {
		t.Fatalf("Persist = %v, %v", written, err)
	}
}
