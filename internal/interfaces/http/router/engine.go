package router

import (
	"github.com/gin-gonic/gin"
	"github.com/person-service/backend/internal/infrastructure/config"
	"github.com/person-service/backend/internal/infrastructure/logger"
	"github.com/person-service/backend/internal/interfaces/http/handler"
	"github.com/person-service/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineDeps are the collaborators served by the HTTP engine
type EngineDeps struct {
	Person *handler.PersonHandler
	System *handler.SystemHandler
	Logger *zap.Logger
	// Meter enables HTTP metrics when non-nil
	Meter metric.Meter
}

// NewEngine builds the gin engine with the middleware stack and all routes.
//
// Middleware order: RequestID, Recovery, request logging, tracing, span
// attributes, span error marking, metrics, profiling labels, security
// headers, CORS, body limit.
func NewEngine(cfg *config.Config, deps EngineDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(deps.Meter, log))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:          cfg.Profiling.Enabled,
		SkipPaths:        middleware.DefaultProfilingConfig().SkipPaths,
		SkipPathPrefixes: middleware.DefaultProfilingConfig().SkipPathPrefixes,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	r := NewRouter(engine, WithBasePath(cfg.HTTP.BasePath))

	personRoutes := NewDomainGroup("person", "/person")
	personRoutes.POST("", deps.Person.Create)
	personRoutes.GET("/:id", deps.Person.Get)
	r.Register(personRoutes)

	systemRoutes := NewDomainGroup("system", "")
	systemRoutes.GET("/health", deps.System.Health)
	systemRoutes.GET("/system/info", deps.System.GetSystemInfo)
	r.Register(systemRoutes)

	swaggerRoutes := NewDomainGroup("swagger", "/swagger")
	swaggerRoutes.Use(middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:    cfg.Swagger.Enabled,
		AllowedIPs: cfg.Swagger.AllowedIPs,
	}))
	swaggerRoutes.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Register(swaggerRoutes)

	r.Setup()
	return engine
}
