package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	"github.com/mensbreakfast/breakfast-backend/internal/bootstrap"
	"github.com/mensbreakfast/breakfast-backend/internal/jobs"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/migrations"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/postgres"
)

const serviceName = "breakfast-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()

	if err := migrations.Up(sqlDB); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	store, err := objectstore.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	deps := bootstrap.RouterDeps{
		Ctx:         ctx,
		ServiceName: serviceName,
		Config:      cfg,
		DB:          pool,
		SQL:         sqlDB,
		Redis:       rdb,
		Uploader:    store,
	}
	if cfg.Firebase.CredentialsPath != "" {
		client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		deps.Verifier = client
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set; trusting X-User-Id headers (development only)")
	}

	app, err := bootstrap.BuildRouter(deps)
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	loc, _ := time.LoadLocation(cfg.App.Timezone)
	scheduler := jobs.NewScheduler(ctx, loc)
	if err := scheduler.AddContentRotation(app.Content); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s %s listening on %s", serviceName, cfg.App.Version, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	scheduler.Stop()
	app.Video.Wait()
	log.Println("stopped")
}
