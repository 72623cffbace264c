//go:build integration

package messaging_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"monster-clicker/internal/messaging"
	"monster-clicker/shared/models"

	"github.com/docker/docker/client"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const testQueue = "test_battle_events"

type PublisherIntegrationSuite struct {
	suite.Suite
	container *rabbitmq.RabbitMQContainer
	conn      *amqp.Connection
}

func (s *PublisherIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx,
		"rabbitmq:3-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete"),
		),
	)
	require.NoError(s.T(), err)
	s.container = container

	url, err := container.AmqpURL(ctx)
	require.NoError(s.T(), err)
	s.conn, err = amqp.Dial(url)
	require.NoError(s.T(), err)
}

func (s *PublisherIntegrationSuite) TearDownSuite() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PublisherIntegrationSuite) TestPublishEvent() {
	ctx := context.Background()
	publisher, err := messaging.NewRabbitMQPublisher(s.conn, testQueue, zap.NewNop())
	s.Require().NoError(err)
	defer publisher.Close()

	now := time.Now().UTC().Truncate(time.Second)
	event, err := models.NewOutboxEvent(models.EventLootSelected, models.LootSelectedPayload{
		SessionID:  uuid.New(),
		PlayerID:   uuid.New(),
		LootItemID: "druid-staff",
		SelectedAt: now,
	}, now)
	s.Require().NoError(err)
	s.Require().NoError(publisher.PublishEvent(ctx, *event))

	ch, err := s.conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	var msg amqp.Delivery
	s.Require().Eventually(func() bool {
		var ok bool
		msg, ok, err = ch.Get(testQueue, true)
		return err == nil && ok
	}, 10*time.Second, 100*time.Millisecond)

	s.Equal(models.EventLootSelected, msg.Type)
	s.Equal(event.ID.String(), msg.MessageId)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var payload models.LootSelectedPayload
	s.Require().NoError(json.Unmarshal(msg.Body, &payload))
	s.Equal("druid-staff", payload.LootItemID)
}

func (s *PublisherIntegrationSuite) TestPublishOnClosedChannelFailsWithoutTrailingDelay() {
	publisher, err := messaging.NewRabbitMQPublisher(s.conn, testQueue, zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(publisher.Close())

	event, err := models.NewOutboxEvent(models.EventBattleCompleted, map[string]string{"k": "v"}, time.Now())
	s.Require().NoError(err)

	// Паузы только между попытками: 100ms + 200ms
	started := time.Now()
	err = publisher.PublishEvent(context.Background(), *event)
	s.Require().Error(err)
	s.Less(time.Since(started), 550*time.Millisecond)
}

func TestPublisherIntegration(t *testing.T) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("docker daemon unavailable: %v", err)
	}
	suite.Run(t, new(PublisherIntegrationSuite))
}
