package api

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyhub/journey/internal/config"
	"github.com/studyhub/journey/internal/journey"
	"github.com/studyhub/journey/internal/logger"
	"github.com/studyhub/journey/internal/models"
	"github.com/studyhub/journey/internal/store"
)

var dateKeyPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// Suggestion is one flattened entry of a journey's question list, as
// served to clients.
type Suggestion struct {
	Number             int    `json:"number"`
	Question           string `json:"question"`
	RelatedReference   string `json:"relatedReference"`
	ReferenceVerified  bool   `json:"referenceVerified"`
	ReferenceSourceURL string `json:"referenceSourceUrl,omitempty"`
}

// Handlers serves the journey read API and the admin trigger.
type Handlers struct {
	config   *config.Config
	store    store.Store
	pipeline *journey.Pipeline
	running  atomic.Bool
}

// NewHandlers wires the read surface. pipeline may be nil when the AI
// key is not configured; the admin trigger then reports unavailable.
func NewHandlers(cfg *config.Config, st store.Store, pipeline *journey.Pipeline) *Handlers {
	return &Handlers{
		config:   cfg,
		store:    st,
		pipeline: pipeline,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetToday handles GET /api/v1/journeys/today, returning today's
// journey flattened into a numbered suggestion list.
func (h *Handlers) GetToday(c *fiber.Ctx) error {
	dateKey := models.DateKey(time.Now())
	return h.renderJourney(c, dateKey)
}

// GetByDate handles GET /api/v1/journeys/:date with a DD-MM-YYYY key.
func (h *Handlers) GetByDate(c *fiber.Ctx) error {
	dateKey := c.Params("date")
	if !dateKeyPattern.MatchString(dateKey) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be in DD-MM-YYYY format",
		})
	}
	return h.renderJourney(c, dateKey)
}

func (h *Handlers) renderJourney(c *fiber.Ctx, dateKey string) error {
	j, err := h.store.GetJourney(c.Context(), dateKey)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Today's journey is still being prepared",
			"date":  dateKey,
		})
	}
	if err != nil {
		logger.Get().Error().Err(err).Str("journey_date", dateKey).Msg("Error loading journey")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load journey",
		})
	}

	suggestions := make([]Suggestion, 0, len(j.Questions))
	for i, pair := range j.Questions {
		suggestions = append(suggestions, Suggestion{
			Number:             i + 1,
			Question:           pair.CAQuestion,
			RelatedReference:   pair.RelatedReference,
			ReferenceVerified:  pair.ReferenceVerified,
			ReferenceSourceURL: pair.ReferenceSourceURL,
		})
	}

	return c.JSON(fiber.Map{
		"journeyDate": j.JourneyDate,
		"generatedAt": j.Meta.GeneratedAt,
		"suggestions": suggestions,
	})
}

// TriggerGenerate handles POST /api/v1/admin/generate, kicking off one
// pipeline run in the background.
func (h *Handlers) TriggerGenerate(c *fiber.Ctx) error {
	log := logger.Get()

	if h.pipeline == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Generation is not configured (missing AI key)",
		})
	}

	if !h.running.CompareAndSwap(false, true) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A generation run is already in progress",
		})
	}

	log.Info().Str("ip", c.IP()).Msg("Admin triggered journey generation")

	go func() {
		defer h.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), h.config.RunTimeout)
		defer cancel()

		if err := h.pipeline.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Background journey generation failed")
			return
		}
		log.Info().Msg("Background journey generation finished")
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "started",
		"message": "Journey generation running in the background",
	})
}
