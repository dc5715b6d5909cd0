package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

func TestPublisher_Publish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			if msg.Topic != "activity" {
				return errors.New("unexpected topic " + msg.Topic)
			}
			key, err := msg.Key.Encode()
			if err != nil {
				return err
			}
			if string(key) != "p-1" {
				return errors.New("unexpected key " + string(key))
			}
			value, err := msg.Value.Encode()
			if err != nil {
				return err
			}
			var event domain.ActivityEvent
			if err := json.Unmarshal(value, &event); err != nil {
				return err
			}
			if event.Type != domain.EventAffiliateClicked || event.ID == "" || event.Occurred.IsZero() {
				return errors.New("event metadata not populated")
			}
			return nil
		})

		p := NewPublisherWithProducer(producer, "activity")
		err := p.Publish(context.Background(), domain.ActivityEvent{
			Type:      domain.EventAffiliateClicked,
			ProductID: "p-1",
			Link:      "https://example.com/buy",
		})
		require.NoError(t, err)
		require.NoError(t, p.Close())
	})

	t.Run("SendFailure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := NewPublisherWithProducer(producer, "")
		err := p.Publish(context.Background(), domain.ActivityEvent{Type: domain.EventProductsGenerated, Topic: "coffee"})
		require.Error(t, err)
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, p.Close())
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), domain.ActivityEvent{Type: domain.EventReviewSubmitted}))
}
