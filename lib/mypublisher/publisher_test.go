package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/bogrelay/lib/myevents"
	"github.com/MarcGrol/bogrelay/lib/mypubsub"
	"github.com/MarcGrol/bogrelay/lib/mytime"
)

type exampleEvent struct {
	OrderID string
}

func (e exampleEvent) GetEventTypeName() string { return "example.happened" }
func (e exampleEvent) GetAggregateName() string { return e.OrderID }

func TestPublisher(t *testing.T) {
	t.Run("envelope is published", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pubsub := mypubsub.NewMockPubSub(ctrl)
		nower := mytime.NewMockNower(ctrl)

		var published []byte
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		pubsub.EXPECT().Publish(gomock.Any(), "example", gomock.Any()).DoAndReturn(
			func(c context.Context, topic string, data []byte) error {
				published = data
				return nil
			})

		err := New(pubsub, nower).Publish(context.TODO(), "example", exampleEvent{OrderID: "shopify-1-2"})
		require.NoError(t, err)

		envelope := myevents.EventEnvelope{}
		require.NoError(t, json.Unmarshal(published, &envelope))
		assert.Equal(t, "example", envelope.Topic)
		assert.Equal(t, "shopify-1-2", envelope.AggregateUID)
		assert.Equal(t, "example.happened", envelope.EventTypeName)
		assert.JSONEq(t, `{"OrderID":"shopify-1-2"}`, envelope.EventPayload)
		assert.Equal(t, mytime.ExampleTime, envelope.CreatedAt)
		assert.NotEmpty(t, envelope.UID)
	})

	t.Run("pubsub failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pubsub := mypubsub.NewMockPubSub(ctrl)
		nower := mytime.NewMockNower(ctrl)

		nower.EXPECT().Now().Return(mytime.ExampleTime)
		pubsub.EXPECT().Publish(gomock.Any(), "example", gomock.Any()).Return(fmt.Errorf("unavailable"))

		err := New(pubsub, nower).Publish(context.TODO(), "example", exampleEvent{OrderID: "1"})
		assert.Error(t, err)
	})
}

func TestEnvelopeUIDIsStable(t *testing.T) {
	ctrl := gomock.NewController(t)
	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).Times(3)

	e := newEnveloper(nower)
	first, err := e.do("example", exampleEvent{OrderID: "1"})
	require.NoError(t, err)
	second, err := e.do("example", exampleEvent{OrderID: "1"})
	require.NoError(t, err)
	other, err := e.do("example", exampleEvent{OrderID: "2"})
	require.NoError(t, err)

	assert.Equal(t, first.UID, second.UID)
	assert.NotEqual(t, first.UID, other.UID)
}
