package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	feedbackservice "matchday/internal/feedback/service"
	feedbackstore "matchday/internal/feedback/store"
	jwttoken "matchday/internal/jwt_token"
	"matchday/internal/match/attendance"
	"matchday/internal/match/finalizer"
	"matchday/internal/match/handler"
	"matchday/internal/match/lifecycle"
	"matchday/internal/match/lock"
	matchmetrics "matchday/internal/match/metrics"
	"matchday/internal/match/result"
	"matchday/internal/match/roster"
	"matchday/internal/match/store"
	"matchday/internal/notification"
	notificationkafka "matchday/internal/notification/kafka"
	"matchday/internal/notification/outbox"
	"matchday/internal/platform/config"
	platformkafka "matchday/internal/platform/kafka"
	"matchday/internal/platform/metrics"
	"matchday/internal/platform/postgres"
	platformredis "matchday/internal/platform/redis"
	httptransport "matchday/internal/transport/http"
)

// matchStore is what the match services need from storage. Both the
// in-memory and the Postgres store satisfy it.
type matchStore interface {
	lifecycle.Store
	attendance.Store
	result.Store
	finalizer.Store
	roster.Store
	store.Seeder
}

type worker func(ctx context.Context) error

type application struct {
	router  http.Handler
	storage string
	workers []worker
	closers []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build connects the configured backends and assembles services, workers, and
// the router. Without a Postgres DSN everything runs in memory.
func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (app *application, err error) {
	app = &application{}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	var (
		matches   matchStore
		feedbacks feedbackservice.Store
		db        *sql.DB
		health    []httptransport.HealthCheck
	)
	if cfg.Postgres.DSN != "" {
		db, err = postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		if cfg.Postgres.Migrate {
			if err = postgres.Migrate(ctx, db); err != nil {
				return nil, err
			}
		}
		pg := store.NewPostgres(db)
		matches, feedbacks = pg, feedbackstore.NewPostgres(db)
		health = append(health, httptransport.HealthCheck{Name: "postgres", Pinger: pg})
		app.storage = "postgres"
	} else {
		matches, feedbacks = store.NewInMemory(), feedbackstore.NewInMemory()
		app.storage = "memory"
	}

	var locker lock.Locker = lock.NewKeyedMutex(cfg.Redis.LockWait)
	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		app.closers = append(app.closers, func() { _ = rc.Close() })
		locker = lock.NewRedisLocker(rc.Client,
			lock.WithLeaseTTL(cfg.Redis.LockTTL),
			lock.WithWait(cfg.Redis.LockWait),
			lock.WithLogger(log),
		)
		health = append(health, httptransport.HealthCheck{Name: "redis", Pinger: httptransport.PingerFunc(rc.Health)})
	}

	sinks := []notification.Sink{notification.NewLogSink(log)}
	kc, err := platformkafka.NewClient(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}
	var publisher *notificationkafka.Publisher
	if kc != nil {
		app.closers = append(app.closers, kc.Close)
		if err = platformkafka.EnsureTopic(ctx, kc, cfg.Kafka.Topic, cfg.Kafka.Partitions); err != nil {
			return nil, err
		}
		publisher = notificationkafka.NewPublisher(kc, cfg.Kafka.Topic, notificationkafka.WithLogger(log))
		health = append(health, httptransport.HealthCheck{Name: "kafka", Pinger: httptransport.PingerFunc(kc.Ping)})
	}
	switch {
	case db != nil:
		// Events land in the outbox; the relay ships them when Kafka is up.
		ob := outbox.New(db)
		sinks = append(sinks, ob)
		if publisher != nil {
			relay := outbox.NewRelay(ob, publisher,
				outbox.WithRelayLogger(log),
				outbox.WithRelayInterval(cfg.Scheduler.OutboxInterval),
			)
			app.workers = append(app.workers, relay.Run)
		}
	case publisher != nil:
		sinks = append(sinks, publisher)
	}
	dispatcher := notification.NewDispatcher(sinks, notification.WithLogger(log))
	app.workers = append(app.workers, dispatcher.Run)

	mm := matchmetrics.New()
	rosters := roster.New(matches)
	feedback := feedbackservice.New(feedbacks, rosters,
		feedbackservice.WithLogger(log),
		feedbackservice.WithNotifier(dispatcher),
	)
	life := lifecycle.New(matches,
		lifecycle.WithLogger(log),
		lifecycle.WithNotifier(dispatcher),
		lifecycle.WithMetrics(mm),
		lifecycle.WithFeedbackRequester(feedback),
	)
	att := attendance.New(matches,
		attendance.WithLogger(log),
		attendance.WithNotifier(dispatcher),
		attendance.WithMetrics(mm),
		attendance.WithCodeGenerator(attendance.NewRandomCodes(cfg.Attendance.CodeLength)),
		attendance.WithCodeTiming(cfg.Attendance.CodeWindow, cfg.Attendance.CodeValidity),
	)
	results := result.New(matches, rosters,
		result.WithLogger(log),
		result.WithNotifier(dispatcher),
		result.WithMetrics(mm),
		result.WithLocker(locker),
		result.WithConsensus(cfg.Consensus.MinSubmissions, cfg.Consensus.Grace),
	)
	sweeps := finalizer.New(matches, att, life, results,
		finalizer.WithLogger(log),
		finalizer.WithMetrics(mm),
		finalizer.WithCodeWindow(att.Window()),
		finalizer.WithConfirmation(results.Grace(), cfg.Consensus.Slack),
	)
	if cfg.Scheduler.Enabled {
		scheduler := finalizer.NewScheduler(sweeps,
			finalizer.WithSchedulerLogger(log),
			finalizer.WithIntervals(finalizer.Intervals{
				IssueCodes:     cfg.Scheduler.CodeIssueInterval,
				AutoFinish:     cfg.Scheduler.AutoFinishInterval,
				ConfirmResults: cfg.Scheduler.ConfirmInterval,
			}),
		)
		app.workers = append(app.workers, scheduler.Run)
	}

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	if cfg.Server.SeedDemoData && db == nil {
		if err = seedDemo(ctx, matches, jwt, log); err != nil {
			return nil, err
		}
	}

	app.router = httptransport.NewRouter(httptransport.Deps{
		Match: handler.New(handler.Services{
			Lifecycle:  life,
			Attendance: att,
			Results:    results,
			Feedback:   feedback,
			Sweeper:    sweeps,
		}, log),
		Validator:  jwttoken.NewJWTServiceAdapter(jwt),
		AdminToken: cfg.Auth.AdminToken,
		Metrics:    metrics.New(),
		Health:     health,
		Logger:     log,
	})
	return app, nil
}

// seedDemo loads a demo match and logs a token for its creator.
func seedDemo(ctx context.Context, s store.Seeder, jwt *jwttoken.JWTService, log *slog.Logger) error {
	m, err := store.SeedDemoMatch(ctx, s, time.Now())
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	token, err := jwt.GenerateAccessToken(store.DemoCreatorID, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("mint demo token: %w", err)
	}
	log.InfoContext(ctx, "seeded demo match",
		"match_id", m.ID,
		"creator_id", store.DemoCreatorID,
		"creator_token", token,
	)
	return nil
}
