package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"demandforecast/models"
	"demandforecast/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	HeaderForecastSynthetic = "X-Forecast-Synthetic"
	HeaderForecastFallback  = "X-Forecast-Fallback-Reason"
)

// Forecaster is the part of the forecast service the handlers call.
type Forecaster interface {
	Forecast(ctx context.Context, req models.ForecastRequest) (models.ForecastResult, error)
}

// ForecastPointResponse is one row of the forecast response body.
type ForecastPointResponse struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
}

type ForecastHandler struct {
	svc        Forecaster
	maxHorizon int
	log        *logrus.Entry
}

func NewForecastHandler(svc Forecaster, maxHorizon int, log *logrus.Entry) *ForecastHandler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ForecastHandler{svc: svc, maxHorizon: maxHorizon, log: log.WithField("component", "http")}
}

// HandleSellerForecast serves GET /forecast/seller?sellerId&productId&days.
func (h *ForecastHandler) HandleSellerForecast(c *fiber.Ctx) error {
	return h.handleForecast(c, models.RoleSeller)
}

// HandleBuyerForecast serves GET /forecast/buyer?retailerId&productId&days.
func (h *ForecastHandler) HandleBuyerForecast(c *fiber.Ctx) error {
	return h.handleForecast(c, models.RoleRetailer)
}

func (h *ForecastHandler) handleForecast(c *fiber.Ctx, role models.EntityRole) error {
	idParam := role.IDParam()

	days := models.DefaultHorizonDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be an integer"})
		}
		days = n
	}

	req := models.ForecastRequest{
		Role:        role,
		EntityID:    strings.TrimSpace(c.Query(idParam)),
		ProductID:   strings.TrimSpace(c.Query("productId")),
		HorizonDays: days,
	}

	result, err := h.svc.Forecast(c.UserContext(), req)
	if err != nil {
		return h.writeError(c, req, err)
	}

	points := make([]ForecastPointResponse, len(result.Points))
	for i, p := range result.Points {
		points[i] = ForecastPointResponse{
			DS:        p.Date.Format("2006-01-02"),
			Yhat:      p.Yhat,
			YhatLower: p.YhatLower,
			YhatUpper: p.YhatUpper,
		}
	}

	c.Set(HeaderForecastSynthetic, strconv.FormatBool(result.IsSynthetic))
	if result.FallbackReason != "" {
		c.Set(HeaderForecastFallback, result.FallbackReason)
	}
	return c.JSON(points)
}

func (h *ForecastHandler) writeError(c *fiber.Ctx, req models.ForecastRequest, err error) error {
	idParam := req.Role.IDParam()

	switch {
	case errors.Is(err, models.ErrMissingIdentifiers):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": idParam + " & productId required"})
	case errors.Is(err, models.ErrMalformedID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": idParam + " & productId must be valid identifiers"})
	case errors.Is(err, models.ErrInvalidHorizon):
		msg := "days must be a positive integer"
		if h.maxHorizon > 0 {
			msg = fmt.Sprintf("days must be between 1 and %d", h.maxHorizon)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid forecast request"})
	case errors.Is(err, service.ErrDataSource):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load sales history"})
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"role":       req.Role,
		"entity_id":  req.EntityID,
		"product_id": req.ProductID,
	}).Error("forecast request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "forecast failed"})
}
