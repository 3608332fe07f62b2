package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sipe/inventory-api/docs"
	"github.com/sipe/inventory-api/internal/api/handler"
	"github.com/sipe/inventory-api/internal/api/middleware"
	"github.com/sipe/inventory-api/internal/core/ports"
	"github.com/sipe/inventory-api/internal/infrastructure/http/handlers"
	"github.com/sipe/inventory-api/pkg/logger"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Equipment ports.EquipmentService
	Checkout  ports.CheckoutService

	// Pingers are checked by the readiness probe, keyed by dependency name.
	Pingers map[string]handlers.Pinger

	Logger         zerolog.Logger
	Version        string
	Started        time.Time
	ExposeInternal bool

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.ExposeInternal)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Started.IsZero() {
		deps.Started = time.Now()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "inventory",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	// The request logger hands errors to the error handler, so the metrics
	// middleware above sees the final status code.
	e.Use(requestLogger(deps.Logger))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	equipmentHandler := handler.NewEquipmentHandler(deps.Equipment)
	checkoutHandler := handler.NewCheckoutHandler(deps.Checkout)
	healthHandler := handlers.NewHealthHandler(deps.Started)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Pingers)

	authMiddleware := middleware.Auth(deps.Auth)
	adminOnly := middleware.AdminOnly()

	// --- Public routes ---
	e.GET("/", apiIndex(deps.Version))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	api.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/registro", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verificar", authHandler.Verify, authMiddleware)

	// --- Equipment routes ---
	equipos := api.Group("/equipos", authMiddleware)
	equipos.GET("", equipmentHandler.List)
	equipos.GET("/estadisticas", equipmentHandler.Stats)
	equipos.POST("/checkout", checkoutHandler.Checkout)
	equipos.GET("/:id", equipmentHandler.Get)
	equipos.GET("/:id/movimientos", equipmentHandler.Movements)
	equipos.POST("/:id/movimientos", equipmentHandler.MoveStock)
	equipos.PATCH("/:id/stock", equipmentHandler.AdjustStock)
	equipos.POST("", equipmentHandler.Create, adminOnly)
	equipos.PUT("/:id", equipmentHandler.Update, adminOnly)
	equipos.DELETE("/:id", equipmentHandler.Delete, adminOnly)

	// --- User routes ---
	usuarios := api.Group("/usuarios", authMiddleware)
	usuarios.GET("", userHandler.List, adminOnly)
	usuarios.POST("", userHandler.Create, adminOnly)
	usuarios.GET("/:id", userHandler.Get, middleware.SelfOrAdmin("id"))
	usuarios.PUT("/:id", userHandler.Update, middleware.SelfOrAdmin("id"))
	usuarios.DELETE("/:id", userHandler.Delete, adminOnly)

	return e
}

// requestLogger writes one zerolog line per request, enriched with the trace
// id when a span is active.
func requestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			l := logger.WithTrace(c.Request().Context(), base)
			var ev *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = l.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = l.Warn()
			default:
				ev = l.Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

type indexResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func apiIndex(version string) echo.HandlerFunc {
	body := indexResponse{
		Name:    "Inventory API",
		Version: version,
		Endpoints: map[string]string{
			"auth":     "/api/auth",
			"equipos":  "/api/equipos",
			"usuarios": "/api/usuarios",
			"health":   "/api/health",
			"metrics":  "/metrics",
			"docs":     "/swagger/index.html",
		},
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, body)
	}
}
