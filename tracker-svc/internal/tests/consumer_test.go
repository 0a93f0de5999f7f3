package tests

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/tracker-svc/internal/mocks"
	"sergei-eats/tracker-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func trackedOrder(id string, status lifecycle.Status, version int64) lifecycle.Order {
	return lifecycle.Order{
		ID:           id,
		RestaurantID: "uwu-cafe",
		Status:       status,
		Type:         lifecycle.TypeDelivery,
		TotalAmount:  20.5,
		CreatedAt:    clock,
		UpdatedAt:    clock.Add(time.Duration(version) * time.Minute),
		Version:      version,
	}
}

func TestConsumer_Process(t *testing.T) {
	order := trackedOrder("A", lifecycle.StatusPending, 1)

	tests := []struct {
		name           string
		event          backend.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
	}{
		{
			name:  "placed",
			event: backend.NewOrderEvent(backend.EventOrderPlaced, order, "", nil, clock),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Apply", mock.Anything, order).Return(true, nil).Once()
			},
		},
		{
			name:  "stale",
			event: backend.NewOrderEvent(backend.EventOrderUpdated, order, lifecycle.StatusPending, nil, clock),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Apply", mock.Anything, order).Return(false, nil).Once()
			},
		},
		{
			name:  "store_error",
			event: backend.NewOrderEvent(backend.EventOrderUpdated, order, lifecycle.StatusPending, nil, clock),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Apply", mock.Anything, order).Return(false, errors.New("redis down")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, nil)
			consumer.Process(context.Background(), testCase.event)
		})
	}
}

func TestConsumer_InvalidEventType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := &service.Consumer{Store: mockStore}

	consumer.Process(context.Background(), backend.OrderEvent{Type: "order_deleted", Order: trackedOrder("A", lifecycle.StatusPending, 1)})
	mockStore.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

// replayReader hands out queued messages, then blocks until ctx is done.
type replayReader struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (r *replayReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func TestConsumer_StartReadsKafka(t *testing.T) {
	placed := trackedOrder("A", lifecycle.StatusPending, 1)
	payload, err := json.Marshal(backend.NewOrderEvent(backend.EventOrderPlaced, placed, "", nil, clock))
	require.NoError(t, err)

	reader := &replayReader{messages: []kafka.Message{
		{Key: []byte("A"), Value: []byte("not json")},
		{Key: []byte("A"), Value: payload},
	}}

	done := make(chan struct{})
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Apply", mock.Anything, mock.MatchedBy(func(o lifecycle.Order) bool {
		return o.ID == "A" && o.Version == 1
	})).Return(true, nil).Once().Run(func(mock.Arguments) { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := service.NewConsumer(backend.NewKafkaSubscriber(reader, nil), mockStore, nil)
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}
	cancel()
	assert.NoError(t, <-errCh)
}
