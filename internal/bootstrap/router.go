package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mensbreakfast/breakfast-backend/config"
	adminhttp "github.com/mensbreakfast/breakfast-backend/internal/admin/http"
	adminrepo "github.com/mensbreakfast/breakfast-backend/internal/admin/repository"
	adminsvc "github.com/mensbreakfast/breakfast-backend/internal/admin/service"
	httpapi "github.com/mensbreakfast/breakfast-backend/internal/api/http"
	"github.com/mensbreakfast/breakfast-backend/internal/api/http/middleware"
	"github.com/mensbreakfast/breakfast-backend/internal/auth"
	authhttp "github.com/mensbreakfast/breakfast-backend/internal/auth/http"
	authrepo "github.com/mensbreakfast/breakfast-backend/internal/auth/repository"
	authsvc "github.com/mensbreakfast/breakfast-backend/internal/auth/service"
	chathttp "github.com/mensbreakfast/breakfast-backend/internal/chat/http"
	chatrepo "github.com/mensbreakfast/breakfast-backend/internal/chat/repository"
	chatsvc "github.com/mensbreakfast/breakfast-backend/internal/chat/service"
	contenthttp "github.com/mensbreakfast/breakfast-backend/internal/content/http"
	contentrepo "github.com/mensbreakfast/breakfast-backend/internal/content/repository"
	contentsvc "github.com/mensbreakfast/breakfast-backend/internal/content/service"
	eventhttp "github.com/mensbreakfast/breakfast-backend/internal/events/http"
	eventrepo "github.com/mensbreakfast/breakfast-backend/internal/events/repository"
	eventsvc "github.com/mensbreakfast/breakfast-backend/internal/events/service"
	financehttp "github.com/mensbreakfast/breakfast-backend/internal/finance/http"
	financerepo "github.com/mensbreakfast/breakfast-backend/internal/finance/repository"
	financesvc "github.com/mensbreakfast/breakfast-backend/internal/finance/service"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
	realtimehttp "github.com/mensbreakfast/breakfast-backend/internal/realtime/http"
	"github.com/mensbreakfast/breakfast-backend/internal/storage/objectstore"
	videohttp "github.com/mensbreakfast/breakfast-backend/internal/video/http"
	videorepo "github.com/mensbreakfast/breakfast-backend/internal/video/repository"
	videosvc "github.com/mensbreakfast/breakfast-backend/internal/video/service"
)

type RouterDeps struct {
	// Ctx bounds background work started by handlers, such as video polls.
	Ctx         context.Context
	ServiceName string
	Config      *config.Config
	DB          *pgxpool.Pool
	SQL         *sql.DB
	Redis       *redis.Client
	// Verifier is nil when Firebase is not configured; requests then
	// authenticate with the X-User-Id header.
	Verifier auth.TokenVerifier
	Uploader objectstore.Uploader
}

// App is the HTTP engine plus the services whose lifecycle main manages.
type App struct {
	Engine  *gin.Engine
	Content *contentsvc.ContentService
	Video   *videosvc.VideoService
}

func BuildRouter(dep RouterDeps) (*App, error) {
	cfg := dep.Config

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	var signer videosvc.Signer
	if cfg.Mux.SigningKey != "" {
		s, err := videosvc.NewPlaybackSigner(cfg.Mux.SigningKeyID, cfg.Mux.SigningKey)
		if err != nil {
			return nil, err
		}
		signer = s
	}

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dep.DB,
		httpapi.PingerFunc(func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() }))
	healthHandler.RegisterRoutes(r)

	hub := realtime.NewHub(dep.Redis)

	userRepo := authrepo.NewUserRepository(dep.DB)
	eventRepo := eventrepo.NewEventRepository(dep.DB)
	contentRepo := contentrepo.NewContentRepository(dep.DB)
	adminRepo := adminrepo.NewAdminRepository(dep.DB)
	txRepo := financerepo.NewTransactionRepository(dep.SQL)

	contentService := contentsvc.NewContentService(contentRepo, dep.Uploader, hub)
	videoService := videosvc.NewVideoService(dep.Ctx, videosvc.NewMuxClient(cfg.Mux),
		videorepo.NewJobStore(dep.Redis), signer, hub, cfg.Mux)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(auth.FirebaseAuth(dep.Verifier, userRepo))
	} else {
		api.Use(auth.DevUser(userRepo))
	}
	admin := api.Group("/admin", auth.RequireAdmin())

	authhttp.New(authsvc.NewAuthService(userRepo)).Register(api)
	eventhttp.New(eventsvc.NewEventService(eventRepo, dep.Uploader, hub)).Register(api, admin)
	financehttp.New(financesvc.NewFinanceService(txRepo, hub, loc)).Register(api)
	adminhttp.New(adminsvc.NewAdminService(userRepo, adminRepo, eventRepo, hub)).Register(admin)
	contenthttp.New(contentService).Register(api, admin)
	chathttp.New(chatsvc.NewChatService(
		chatrepo.NewTranscriptStore(dep.Redis, cfg.Chat.HistoryLimit),
		chatsvc.NewCohereClient(cfg.Cohere),
	), cfg.Chat).Register(api)
	videohttp.New(videoService, cfg.Mux.MaxUploadSize).Register(api, admin)
	realtimehttp.New(hub).Register(api)

	return &App{Engine: r, Content: contentService, Video: videoService}, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.HeaderRequestID, "X-User-Id", "X-User-Email"},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return cors.New(c)
}
