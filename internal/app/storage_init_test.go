package app

import (
	"context"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.DebugLevel)
	return logger.WithField("component", "test")
}

func TestInitStorage_Memory(t *testing.T) {
	handle, err := initStorage(context.Background(), Config{StorageDriver: StorageDriverMemory}, testLogger())
	if err != nil {
		t.Fatalf("init memory storage failed: %v", err)
	}
	if handle.repo == nil {
		t.Fatal("expected non-nil repository")
	}
	if err := handle.ping(); err != nil {
		t.Fatalf("memory ping should not fail: %v", err)
	}
	if err := handle.close(); err != nil {
		t.Fatalf("memory close should not fail: %v", err)
	}
}

func TestInitStorage_EmptyDriverDefaultsToMemory(t *testing.T) {
	handle, err := initStorage(context.Background(), Config{}, testLogger())
	if err != nil {
		t.Fatalf("init storage failed: %v", err)
	}
	if handle.repo == nil {
		t.Fatal("expected non-nil repository")
	}
}

func TestInitStorage_UnknownDriver(t *testing.T) {
	_, err := initStorage(context.Background(), Config{StorageDriver: "cassandra"}, testLogger())
	if err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
	if !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("unexpected error: %v", err)
	}
}
