package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	jwttoken "veriflow/internal/jwt_token"
	"veriflow/internal/lifecycle/adapters"
	"veriflow/internal/lifecycle/handler"
	lifecyclemetrics "veriflow/internal/lifecycle/metrics"
	"veriflow/internal/lifecycle/models"
	"veriflow/internal/lifecycle/ports"
	lifecycleservice "veriflow/internal/lifecycle/service"
	lifecyclestore "veriflow/internal/lifecycle/store"
	"veriflow/internal/platform/config"
	"veriflow/internal/platform/httpserver"
	"veriflow/internal/platform/kafka"
	"veriflow/internal/platform/logger"
	"veriflow/internal/platform/metrics"
	"veriflow/internal/platform/postgres"
	redisclient "veriflow/internal/platform/redis"
	quotametrics "veriflow/internal/quota/metrics"
	quotaservice "veriflow/internal/quota/service"
	quotastore "veriflow/internal/quota/store"
	ratelimitmetrics "veriflow/internal/ratelimit/metrics"
	ratelimitmw "veriflow/internal/ratelimit/middleware"
	ratelimitservice "veriflow/internal/ratelimit/service"
	"veriflow/internal/ratelimit/store/bucket"
	"veriflow/pkg/platform/audit"
	auditpublisher "veriflow/pkg/platform/audit/publisher"
	"veriflow/pkg/platform/circuit"
	"veriflow/pkg/platform/httputil"
	authmw "veriflow/pkg/platform/middleware/auth"
	"veriflow/pkg/platform/middleware/request"
	"veriflow/pkg/platform/middleware/requesttime"
	"veriflow/pkg/platform/notification"
	notificationpublisher "veriflow/pkg/platform/notification/publisher"
	"veriflow/pkg/platform/outbox"
	outboxmemory "veriflow/pkg/platform/outbox/store/memory"
	outboxpostgres "veriflow/pkg/platform/outbox/store/postgres"
	outboxworker "veriflow/pkg/platform/outbox/worker"
	platformstrings "veriflow/pkg/platform/strings"
	txcontext "veriflow/pkg/platform/tx"
)

// infra holds the optional backing services selected by configuration.
type infra struct {
	pool     *pgxpool.Pool
	redis    *redisclient.Client
	producer *kafka.Producer
}

func (i *infra) close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

// stores groups the persistence collaborators of the lifecycle service.
type stores struct {
	requests  ports.Store
	tx        ports.StoreTx
	users     ports.UserDirectory
	documents ports.DocumentInventory
	quota     quotaservice.Store
	outbox    outbox.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("veriflow stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := metrics.NewRegistry()

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	router, dispatcher, err := newApp(ctx, cfg, deps, reg, log)
	if err != nil {
		return err
	}
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting veriflow", "addr", cfg.Server.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newApp wires stores, services and the outbox dispatcher over deps and
// returns the HTTP router.
func newApp(ctx context.Context, cfg *config.Config, deps *infra, reg *prometheus.Registry, log *slog.Logger) (http.Handler, *outboxworker.Dispatcher, error) {
	st, err := buildStores(ctx, cfg, deps, log)
	if err != nil {
		return nil, nil, err
	}

	quota, err := quotaservice.New(st.quota, &cfg.Quota,
		quotaservice.WithLogger(log),
		quotaservice.WithMetrics(quotametrics.New(reg)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init quota service: %w", err)
	}

	lifecycle, err := lifecycleservice.New(st.requests, st.tx, st.users, st.documents, quota,
		lifecycleservice.WithLogger(log),
		lifecycleservice.WithAuditPublisher(auditpublisher.NewPublisher(st.outbox)),
		lifecycleservice.WithNotificationPublisher(notificationpublisher.NewPublisher(st.outbox)),
		lifecycleservice.WithMetrics(lifecyclemetrics.New(reg)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("init lifecycle service: %w", err)
	}

	dispatcher, err := buildDispatcher(cfg, deps, st.outbox, reg, log)
	if err != nil {
		return nil, nil, err
	}

	validator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience),
	)
	limiter, err := buildRateLimiter(cfg, deps, reg, log)
	if err != nil {
		return nil, nil, err
	}

	return newRouter(cfg, deps, handler.New(lifecycle, log), validator, limiter, reg, log), dispatcher, nil
}

func connect(ctx context.Context, cfg *config.Config, log *slog.Logger) (*infra, error) {
	deps := &infra{}

	if cfg.Database.URL != "" {
		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(ctx, cfg.Database.URL); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		deps.pool = pool
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	client, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		deps.close()
		return nil, err
	}
	deps.redis = client

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			deps.close()
			return nil, err
		}
		deps.producer = producer
		if err := producer.EnsureTopics(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor, audit.Topic, notification.Topic); err != nil {
			deps.close()
			return nil, err
		}
	}

	return deps, nil
}

func buildStores(ctx context.Context, cfg *config.Config, deps *infra, log *slog.Logger) (stores, error) {
	var (
		st    stores
		users userSeeder
	)

	if deps.pool != nil {
		requests := lifecyclestore.NewPostgres(deps.pool)
		directory := adapters.NewPostgresUserDirectory(deps.pool)
		st.requests = requests
		st.tx = lifecyclestore.NewPostgresTx(txcontext.NewManager(deps.pool), requests)
		st.users = directory
		users = directory
		st.documents = adapters.NewPostgresDocumentInventory(deps.pool)
		st.quota = quotastore.NewPostgres(deps.pool)
		st.outbox = outboxpostgres.New(deps.pool)
	} else {
		requests := lifecyclestore.NewInMemory()
		directory := adapters.NewInMemoryUserDirectory()
		st.requests = requests
		st.tx = lifecyclestore.NewShardedTx(requests)
		st.users = directory
		users = directory
		st.documents = adapters.NewInMemoryDocumentInventory()
		st.quota = quotastore.NewInMemory()
		st.outbox = outboxmemory.NewInMemoryStore()
	}

	// Redis takes over quota counters whenever it is configured.
	if deps.redis != nil {
		st.quota = quotastore.NewRedis(deps.redis.Client)
		log.Info("using redis quota store")
	}

	if err := seedUsers(ctx, users, cfg.Seed, log); err != nil {
		return stores{}, err
	}
	return st, nil
}

// userSeeder is implemented by both user directories.
type userSeeder interface {
	SeedUser(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// seedUsers creates the users listed in SEED_* so a fresh environment can be
// exercised without a registration service.
func seedUsers(ctx context.Context, directory userSeeder, cfg config.SeedConfig, log *slog.Logger) error {
	groups := []struct {
		emails []string
		role   models.Role
	}{
		{cfg.Customers, models.RoleCustomer},
		{cfg.Requestors, models.RoleRequestor},
		{cfg.Officers, models.RoleVerificationOfficer},
	}
	for _, g := range groups {
		for _, addr := range platformstrings.Unique(g.emails, platformstrings.TrimLower) {
			user, err := directory.SeedUser(ctx, addr, g.role)
			if err != nil {
				return fmt.Errorf("seed user %s: %w", addr, err)
			}
			log.Info("seeded user", "user_id", user.ID.String(), "email", user.Email, "role", string(user.Role))
		}
	}
	return nil
}

func buildDispatcher(cfg *config.Config, deps *infra, store outbox.Store, reg prometheus.Registerer, log *slog.Logger) (*outboxworker.Dispatcher, error) {
	var deliverer outbox.Deliverer = outbox.NewLogDeliverer(log)
	if deps.producer != nil {
		deliverer = deps.producer
	}

	dispatcher, err := outboxworker.NewDispatcher(store, deliverer,
		outboxworker.WithLogger(log),
		outboxworker.WithMetrics(outboxworker.NewMetrics(reg)),
		outboxworker.WithBatchSize(cfg.Outbox.BatchSize),
		outboxworker.WithInterval(cfg.Outbox.PollInterval, cfg.Outbox.MaxBackoff),
		outboxworker.WithBreaker(circuit.New("outbox-delivery", circuit.WithFailureThreshold(cfg.Outbox.FailureThreshold))),
	)
	if err != nil {
		return nil, fmt.Errorf("init outbox dispatcher: %w", err)
	}
	return dispatcher, nil
}

// buildRateLimiter throttles each actor. With Redis the windows are shared
// across replicas and an in-memory limiter covers Redis outages.
func buildRateLimiter(cfg *config.Config, deps *infra, reg prometheus.Registerer, log *slog.Logger) (*ratelimitmw.Middleware, error) {
	m := ratelimitmetrics.New(reg)
	newService := func(store ratelimitservice.BucketStore) (*ratelimitservice.Service, error) {
		return ratelimitservice.New(store,
			ratelimitservice.WithConfig(&cfg.RateLimit),
			ratelimitservice.WithLogger(log),
			ratelimitservice.WithMetrics(m),
		)
	}

	opts := []ratelimitmw.Option{
		ratelimitmw.WithDisabled(!cfg.RateLimit.Enabled),
		ratelimitmw.WithMetrics(m),
	}

	if deps.redis == nil {
		primary, err := newService(bucket.NewInMemory())
		if err != nil {
			return nil, fmt.Errorf("init rate limiter: %w", err)
		}
		return ratelimitmw.New(primary, log, opts...), nil
	}

	primary, err := newService(bucket.NewRedis(deps.redis.Client))
	if err != nil {
		return nil, fmt.Errorf("init rate limiter: %w", err)
	}
	fallback, err := newService(bucket.NewInMemory())
	if err != nil {
		return nil, fmt.Errorf("init fallback rate limiter: %w", err)
	}
	opts = append(opts, ratelimitmw.WithFallback(fallback, circuit.New("ratelimit-redis", circuit.WithSuccessThreshold(3))))
	return ratelimitmw.New(primary, log, opts...), nil
}

func newRouter(cfg *config.Config, deps *infra, h *handler.Handler, validator authmw.JWTValidator, limiter *ratelimitmw.Middleware, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	httpMetrics := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", healthHandler(deps))
	r.Handle("/metrics", metrics.Handler(reg))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
		r.Use(authmw.RequireAuth(validator, log))
		r.Use(limiter.RateLimitByMethod())
		h.Register(r)
	})
	return r
}

func healthHandler(deps *infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		check := func(name string, fn func(context.Context) error) {
			if err := fn(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				return
			}
			checks[name] = "ok"
		}
		if deps.pool != nil {
			check("postgres", deps.pool.Ping)
		}
		if deps.redis != nil {
			check("redis", deps.redis.Health)
		}
		if deps.producer != nil {
			check("kafka", deps.producer.Ping)
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, map[string]any{"healthy": healthy, "checks": checks})
	}
}
