package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/internal/platforms"
	"github.com/clipforge/clipforge/internal/types"
)

// DestinationHandler handles HTTP requests for destination information
type DestinationHandler struct {
	registry *platforms.Registry
}

// NewDestinationHandler creates a new destination handler instance
func NewDestinationHandler(registry *platforms.Registry) *DestinationHandler {
	return &DestinationHandler{registry: registry}
}

// ListDestinations handles the request to list registered destinations
func (h *DestinationHandler) ListDestinations(c *fiber.Ctx) error {
	adapters := h.registry.All()
	rows := make([]types.DestinationInfo, 0, len(adapters))
	for _, p := range adapters {
		limits := p.Limits()
		rows = append(rows, types.DestinationInfo{
			Name:           p.Name(),
			DisplayName:    p.DisplayName(),
			Authenticated:  p.IsAuthenticated(),
			MaxDurationSec: limits.MaxDurationSec,
			MaxFileSize:    limits.MaxFileSize,
			MaxTitleLength: limits.MaxTitleLength,
			MaxHashtags:    limits.MaxHashtags,
		})
	}

	return c.JSON(types.Success(types.ListResponse[types.DestinationInfo]{
		Rows:  rows,
		Total: len(rows),
	}))
}
