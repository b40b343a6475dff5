package cache

import (
	"context"
	"testing"
)

func TestOpenWithoutAddr(t *testing.T) {
	rdb, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdb != nil {
		t.Fatalf("expected nil client when addr is empty")
	}
	if ReadyCheck(nil) != nil {
		t.Fatalf("expected nil ready check for nil client")
	}
}
