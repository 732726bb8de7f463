//go:build integration

package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"matchday/internal/notification"
	"matchday/internal/notification/kafka"
	"matchday/internal/notification/outbox"
	id "matchday/pkg/domain"
	"matchday/pkg/requestcontext"
	"matchday/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	store    *outbox.Store
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redpanda = mgr.GetRedpanda(s.T())
	s.store = outbox.New(s.postgres.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "outbox"))
}

func (s *OutboxSuite) TestDeliverIsIdempotent() {
	ctx := requestcontext.WithTime(context.Background(), time.Now().UTC())
	event := notification.NewEvent(ctx, notification.KindMatchStatusChanged, id.NewMatchID(), nil)

	s.Require().NoError(s.store.Deliver(ctx, event))
	s.Require().NoError(s.store.Deliver(ctx, event))

	n, err := s.store.PendingCount(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *OutboxSuite) TestRelayPublishesToKafka() {
	ctx := context.Background()
	topic := "matchday.test." + id.NewMatchID().String()
	matchID := id.NewMatchID()
	base := time.Now().UTC()
	for i, kind := range []notification.Kind{notification.KindResultUpdated, notification.KindResultConfirmed} {
		evCtx := requestcontext.WithTime(ctx, base.Add(time.Duration(i)*time.Second))
		s.Require().NoError(s.store.Deliver(evCtx, notification.NewEvent(evCtx, kind, matchID, nil)))
	}

	producer := s.redpanda.NewClient(s.T(), kgo.AllowAutoTopicCreation())
	relay := outbox.NewRelay(s.store, kafka.NewPublisher(producer, topic))

	n, err := relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	pending, err := s.store.PendingCount(ctx)
	s.Require().NoError(err)
	s.Zero(pending)

	consumer := s.redpanda.NewClient(s.T(),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	pollCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) < 2 && pollCtx.Err() == nil {
		fetches := consumer.PollFetches(pollCtx)
		records = append(records, fetches.Records()...)
	}
	s.Require().Len(records, 2)
	s.Equal(matchID.String(), string(records[0].Key))
	s.Equal("result.temporary_updated", string(records[0].Headers[0].Value))
	s.Equal("result.confirmed", string(records[1].Headers[0].Value))
}
