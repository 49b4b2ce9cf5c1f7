package adapter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-service-sdk/internal/adapter"
	"github.com/MKhiriev/go-service-sdk/internal/mock"
)

type orderCreated struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestJSONPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mock.NewMockPublisher(ctrl)

	ctx := context.Background()
	pub.EXPECT().
		Publish(ctx, "orders.created", []byte(`{"id":7,"title":"book"}`)).
		Return(nil)

	p := adapter.NewJSONPublisher[orderCreated](pub, "orders.created")
	require.NoError(t, p.Publish(ctx, orderCreated{ID: 7, Title: "book"}))
}

func TestJSONPublisher_PropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mock.NewMockPublisher(ctrl)

	boom := errors.New("boom")
	pub.EXPECT().Publish(gomock.Any(), "orders.created", gomock.Any()).Return(boom)

	p := adapter.NewJSONPublisher[orderCreated](pub, "orders.created")
	assert.ErrorIs(t, p.Publish(context.Background(), orderCreated{}), boom)
}

func TestJSONHandler(t *testing.T) {
	var got orderCreated
	h := adapter.JSONHandler(func(_ context.Context, v orderCreated) error {
		got = v
		return nil
	})

	require.NoError(t, h(context.Background(), adapter.Message{Subject: "orders.created", Data: []byte(`{"id":3,"title":"pen"}`)}))
	assert.Equal(t, orderCreated{ID: 3, Title: "pen"}, got)

	err := h(context.Background(), adapter.Message{Subject: "orders.created", Data: []byte("{")})
	assert.ErrorContains(t, err, "error decoding orders.created message")
}
