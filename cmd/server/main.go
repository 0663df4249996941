package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"motorlane/internal/admin"
	"motorlane/internal/blog"
	"motorlane/internal/catalog"
	"motorlane/internal/leads"
	"motorlane/internal/moderation"
	"motorlane/internal/platform/config"
	"motorlane/internal/platform/httpserver"
	"motorlane/internal/platform/logger"
	"motorlane/internal/platform/metrics"
	platformredis "motorlane/internal/platform/redis"
	"motorlane/internal/profiles"
	"motorlane/internal/session"
	httptransport "motorlane/internal/transport/http"
	"motorlane/pkg/platform/audit"
	kafkastore "motorlane/pkg/platform/audit/store/kafka"
	memorystore "motorlane/pkg/platform/audit/store/memory"
	"motorlane/pkg/platform/audit/worker"
)

// main wires dependencies and owns the process lifecycle. The in-memory
// stores are the serving working set; when a database is configured it acts
// as the durable backend, hydrated from at startup and written through on
// every change.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.DevBypass {
		log.Warn("admin bypass is using the built-in development credential pair; " +
			"set MOTORLANE_ADMIN_BYPASS_HASH to rotate or disable it")
	}

	m := metrics.New()

	// Working set.
	cars := catalog.NewMemoryStore()
	users := profiles.NewMemoryStore()
	articles := blog.NewMemoryStore()
	enquiries := leads.NewMemoryStore()

	local := moderation.Backends{
		Profiles: users,
		Listings: cars,
		Articles: articles,
		Leads:    enquiries,
	}

	// Durable backend, when configured.
	var remote moderation.Backends
	catalogOpts := []catalog.Option{catalog.WithLogger(log)}
	profileOpts := []profiles.Option{profiles.WithLogger(log)}
	leadOpts := []leads.Option{leads.WithLogger(log), leads.WithMetrics(m)}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			return err
		}

		remote = moderation.Backends{
			Profiles: profiles.NewPostgres(db),
			Listings: catalog.NewPostgres(db),
			Articles: blog.NewPostgres(db),
			Leads:    leads.NewPostgres(db),
		}
		catalogOpts = append(catalogOpts, catalog.WithRemote(remote.Listings))
		profileOpts = append(profileOpts, profiles.WithRemote(remote.Profiles))
		leadOpts = append(leadOpts, leads.WithRemote(remote.Leads))

		if err := blog.Seed(ctx, remote.Articles); err != nil {
			return err
		}
		if err := hydrate(ctx, remote, local); err != nil {
			return err
		}
	} else if err := blog.Seed(ctx, articles); err != nil {
		return err
	}

	// Fallback marker store.
	var markers session.MarkerStore = session.NewMemoryMarkerStore()
	if cfg.Redis.URL != "" {
		client, err := platformredis.New(cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		markers = session.NewRedisMarkerStore(client)
	}

	// Audit pipeline.
	var sink audit.Store = memorystore.New()
	if len(cfg.Audit.Brokers) > 0 {
		ks, err := kafkastore.New(ctx, cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			return err
		}
		defer ks.Close()
		sink = ks
	}
	publisher := audit.NewChannelPublisher(cfg.Audit.Buffer, log)
	auditWorker := worker.New(sink, publisher.Inbox(), log)

	// Domain services.
	catalogSvc := catalog.New(cars, catalogOpts...)
	profilesSvc := profiles.New(users, profileOpts...)
	leadsSvc := leads.New(enquiries, leadOpts...)
	blogSvc := blog.New(articles)
	overviewSvc := admin.New(cars, users, articles, enquiries)

	provider := session.NewHTTPProvider(cfg.Auth)
	resolver := session.NewResolver(provider, markers,
		cfg.Auth.AdminEmail, cfg.Auth.AdminBypassHash, log,
		session.WithProfileRecorder(profilesSvc),
		session.WithMetrics(m),
		session.WithAuditPublisher(publisher),
	)
	moderationSvc := moderation.New(remote, local, markers,
		moderation.WithLogger(log),
		moderation.WithMetrics(m),
		moderation.WithAuditPublisher(publisher),
		moderation.WithActor(func() string { return resolver.Current().Email }),
	)

	router := httptransport.NewRouter(resolver, log,
		httptransport.NewAuthHandler(resolver, log),
		httptransport.NewCatalogHandler(catalogSvc, profilesSvc, moderationSvc, resolver, log),
		httptransport.NewBlogHandler(blogSvc, log),
		httptransport.NewLeadsHandler(leadsSvc, log),
		httptransport.NewAccountHandler(profilesSvc, resolver, log),
		httptransport.NewAdminHandler(overviewSvc, profilesSvc, leadsSvc, moderationSvc, resolver, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := auditWorker.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		// The initial resolution runs before the loading gate opens; requests
		// arriving earlier get 503 rather than a wrong redirect.
		resolver.ResolveInitial(ctx)
		resolver.Run(ctx)
		return nil
	})
	g.Go(func() error {
		log.Info("starting motorlane", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// hydrate copies the durable backend into the working set so reads serve the
// persisted state from the first request.
func hydrate(ctx context.Context, remote, local moderation.Backends) error {
	cars, err := remote.Listings.List(ctx, catalog.Filter{})
	if err != nil {
		return err
	}
	for _, car := range cars {
		if err := local.Listings.Create(ctx, car); err != nil {
			return err
		}
	}

	users, err := remote.Profiles.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range users {
		if err := local.Profiles.Create(ctx, p); err != nil {
			return err
		}
	}

	posts, err := remote.Articles.List(ctx)
	if err != nil {
		return err
	}
	for _, post := range posts {
		if err := local.Articles.Create(ctx, post); err != nil {
			return err
		}
	}

	enquiries, err := remote.Leads.List(ctx)
	if err != nil {
		return err
	}
	for _, lead := range enquiries {
		if err := local.Leads.Create(ctx, lead); err != nil {
			return err
		}
	}
	return nil
}
