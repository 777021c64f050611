package routes

import (
	"demandforecast/handlers"
	"demandforecast/metrics"
	"demandforecast/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the routes need.
type Deps struct {
	Forecasts *handlers.ForecastHandler
	Health    handlers.Pinger
	Metrics   *metrics.Metrics
	Log       *logrus.Entry

	// JWTSecret enables bearer-token auth on the forecast routes when non-empty.
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, deps Deps) {
	app.Use(cors.New())
	if deps.Log != nil {
		app.Use(middleware.RequestLogger(deps.Log))
	}

	// --- Service Routes ---
	app.Get("/health", handlers.HandleHealth(deps.Health))
	app.Get("/version", handlers.HandleVersion)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// --- Forecast Routes ---
	forecast := app.Group("/forecast", middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))

	sellerChain := []fiber.Handler{}
	buyerChain := []fiber.Handler{}
	if deps.JWTSecret != "" {
		jwt := middleware.JWT([]byte(deps.JWTSecret))
		sellerChain = append(sellerChain, jwt, middleware.SellerRequired())
		buyerChain = append(buyerChain, jwt, middleware.RetailerRequired())
	}

	forecast.Get("/seller", append(sellerChain, deps.Forecasts.HandleSellerForecast)...)
	forecast.Get("/buyer", append(buyerChain, deps.Forecasts.HandleBuyerForecast)...)
}
