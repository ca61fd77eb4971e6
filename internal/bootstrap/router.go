package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/metrically/metrically-backend/internal/api/http"
	"github.com/metrically/metrically-backend/internal/api/http/middleware"
	"github.com/metrically/metrically-backend/internal/auth"
	authhttp "github.com/metrically/metrically-backend/internal/auth/http"
	authmw "github.com/metrically/metrically-backend/internal/auth/middleware"
	authrepo "github.com/metrically/metrically-backend/internal/auth/repository"
	authservice "github.com/metrically/metrically-backend/internal/auth/service"
	genhttp "github.com/metrically/metrically-backend/internal/generation/http"
	genservice "github.com/metrically/metrically-backend/internal/generation/service"
	kpihttp "github.com/metrically/metrically-backend/internal/kpis/http"
	kpirepo "github.com/metrically/metrically-backend/internal/kpis/repository"
	profilehttp "github.com/metrically/metrically-backend/internal/profiles/http"
	profilerepo "github.com/metrically/metrically-backend/internal/profiles/repository"
	profileservice "github.com/metrically/metrically-backend/internal/profiles/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string

	DB    *pgxpool.Pool
	Cache *redis.Client

	AuthService  *authservice.AuthService
	GoogleOAuth  *authservice.GoogleOAuth
	Sessions     *auth.SessionProvider
	AIClient     *genservice.Client
	Availability *genservice.AvailabilityCache
	Autosave     *profileservice.AutosaveCoordinator
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Cache, dep.Availability)
	healthHandler.RegisterRoutes(r)

	userRepo := authrepo.NewUserRepository(dep.DB)
	profileRepo := profilerepo.NewProfileRepository(dep.DB)
	setRepo := kpirepo.NewSetRepository(dep.DB)
	setCache := kpirepo.NewSetCache(dep.Cache)

	submitSvc := profileservice.NewSubmitService(profileRepo, setRepo, dep.AIClient, setCache)
	accountSvc := authservice.NewAccountService(userRepo, profileRepo, setRepo)

	api := r.Group("/api/v1")

	authLimiter := middleware.NewRateLimiter(5, 10)
	authGroup := api.Group("/auth")
	authGroup.Use(authLimiter.Middleware())

	authHandler := authhttp.New(dep.AuthService, dep.GoogleOAuth, accountSvc, dep.Sessions)
	authHandler.Register(authGroup)

	aiGroup := api.Group("/ai")
	genHandler := genhttp.New(dep.AIClient, dep.Availability)
	genHandler.Register(aiGroup)

	protected := api.Group("")
	protected.Use(authmw.AuthMiddleware(dep.AuthService))

	authHandler.RegisterProtected(protected.Group("/auth"))
	genHandler.RegisterProtected(protected.Group("/ai"))

	profileHandler := profilehttp.New(profileRepo, submitSvc, dep.Autosave)
	profileHandler.Register(protected.Group("/profile"))

	kpiHandler := kpihttp.New(setRepo, setCache)
	kpiHandler.Register(protected.Group("/kpis"))

	return r
}
