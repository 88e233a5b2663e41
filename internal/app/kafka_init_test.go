package app

import "testing"

func TestInitKafkaProducer_EmptyBrokers(t *testing.T) {
	producer, err := initKafkaProducer("", testLogger())
	if err != nil {
		t.Fatalf("empty brokers should not error: %v", err)
	}
	if producer != nil {
		t.Fatal("expected nil producer for empty brokers")
	}
}

func TestInitKafkaProducer_UnreachableBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping broker connection attempt in short mode")
	}

	producer, err := initKafkaProducer("127.0.0.1:1", testLogger())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if producer != nil {
		t.Fatal("expected nil producer on error")
	}
}

func TestCloseKafka_NilProducer(t *testing.T) {
	// nil producer не должен вызывать панику
	closeKafka(nil, testLogger())
}
