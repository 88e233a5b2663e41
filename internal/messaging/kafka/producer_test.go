package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"northwind/internal/domain"
)

func testEvent() domain.LifecycleEvent {
	return domain.LifecycleEvent{
		ID:         "evt-1",
		Type:       domain.EventOrderSubmitted,
		OrderID:    10248,
		CustomerID: "VINET",
		State:      domain.OrderStateInProgress,
		OccurredAt: time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestProducer_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.OrderID != 10248 || event.EventType != domain.EventOrderSubmitted {
			t.Errorf("unexpected event payload: %+v", event)
		}
		if event.State != "in_progress" {
			t.Errorf("unexpected event state: %s", event.State)
		}
		return nil
	})

	if err := producer.Publish(testEvent()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Publish_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.Publish(testEvent()); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(testEvent())

	if event.EventID != "evt-1" {
		t.Errorf("unexpected event id: %s", event.EventID)
	}
	if event.EventType != domain.EventOrderSubmitted {
		t.Errorf("unexpected event type: %s", event.EventType)
	}
	if event.OrderID != 10248 || event.CustomerID != "VINET" {
		t.Errorf("unexpected order fields: %+v", event)
	}
	if event.State != "in_progress" {
		t.Errorf("unexpected state: %s", event.State)
	}
}
