// Command server runs the application lifecycle API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"talentgate/internal/analysis"
	"talentgate/internal/application/models"
	"talentgate/internal/application/service"
	appstore "talentgate/internal/application/store"
	"talentgate/internal/audit"
	"talentgate/internal/identity"
	"talentgate/internal/job"
	"talentgate/internal/notify"
	"talentgate/internal/platform/config"
	"talentgate/internal/platform/httpserver"
	"talentgate/internal/platform/logger"
	"talentgate/internal/platform/metrics"
	platformredis "talentgate/internal/platform/redis"
	"talentgate/internal/room"
	"talentgate/internal/session"
	"talentgate/internal/sideeffect"
	transport "talentgate/internal/transport/http"
	"talentgate/pkg/domain"
)

// gatewayOwnership trusts the API gateway in front of this service to have
// resolved org membership; the engine still receives the hook so deployments
// without a gateway can plug a real checker in here.
type gatewayOwnership struct{}

func (gatewayOwnership) VerifyApplicationAccess(context.Context, models.Application, domain.UserID) error {
	return nil
}

func (gatewayOwnership) VerifyElevatedRole(context.Context, domain.UserID, domain.JobID) error {
	return nil
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	runner := sideeffect.NewRunner(log, m, 30*time.Second)

	var (
		apps       appstore.Store
		notes      appstore.NoteStore
		jobs       job.Store
		users      identity.UserStore
		profiles   identity.ProfileStore
		auditStore audit.Store
		txRunner   service.TxRunner
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}

		if apps, err = appstore.NewPostgres(db); err != nil {
			return err
		}
		notes = appstore.NewPostgresNotes(db)
		if jobs, err = job.NewPostgres(db); err != nil {
			return err
		}
		if users, err = identity.NewPostgresUsers(db); err != nil {
			return err
		}
		profiles = identity.NewPostgresProfiles(db)
		if auditStore, err = audit.NewPostgres(db); err != nil {
			return err
		}
		txRunner = sqlTxRunner{db: db, timeout: cfg.TxTimeout}
		log.Info("storage: postgres")
	} else {
		apps = appstore.NewMemory()
		notes = appstore.NewMemoryNotes()
		jobs = job.NewMemory()
		users = identity.NewMemoryUsers()
		profiles = identity.NewMemoryProfiles()
		auditStore = audit.NewMemory()
		txRunner = memTxRunner{}
		log.Warn("storage: in-memory, data will not survive restarts")
	}

	var sessions session.Store = session.NewMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessions = session.NewRedis(redisClient.Client, cfg.SessionTTL)
		log.Info("sessions: redis")
	}
	issuer := session.NewJWTIssuer(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.SessionTTL, sessions)

	group, ctx := errgroup.WithContext(ctx)

	// Audit events append to storage synchronously; the Kafka mirror, when
	// configured, runs through a queue so a slow broker stays off the
	// request path.
	var auditSink audit.Sink
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaAuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()

		queue := audit.NewChannelSink(1024)
		worker := audit.NewWorker(kafkaSink, queue.Events(), log)
		group.Go(func() error { return worker.Run(ctx) })
		auditSink = queue
		log.Info("audit mirror: kafka", "topic", cfg.KafkaAuditTopic)
	}
	publisher := audit.NewPublisher(auditStore, auditSink, log)

	var analyzer analysis.Trigger = analysis.LogTrigger{Logger: log}
	if cfg.AnalyzerURL != "" {
		analyzer = analysis.NewHTTPTrigger(cfg.AnalyzerURL)
	}

	engine := service.New(service.Deps{
		Applications:        apps,
		Notes:               notes,
		Jobs:                jobs,
		Users:               users,
		Profiles:            profiles,
		Provisioner:         identity.NewProvisioner(users, profiles, log),
		Sessions:            issuer,
		Ownership:           gatewayOwnership{},
		Notifier:            notify.LogNotifier{Logger: log},
		Staff:               notify.LogStaffNotifier{Logger: log},
		Messenger:           notify.LogMessenger{Logger: log},
		Analyzer:            analyzer,
		Rooms:               room.LocalProvisioner{BaseURL: cfg.RoomBaseURL},
		Audit:               publisher,
		Runner:              runner,
		Metrics:             m,
		Logger:              log,
		Tx:                  txRunner,
		AnalysisCallbackURL: cfg.AnalysisCallbackURL,
	})

	server := httpserver.New(cfg.Addr, transport.NewRouter(engine, issuer, log))

	group.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		// Let in-flight side effects finish before the process exits.
		runner.Wait()
		return nil
	})

	return group.Wait()
}
