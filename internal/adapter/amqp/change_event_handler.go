package amqp

import (
	"context"
	"encoding/json"

	"github.com/dishpatch/dishpatch/internal/adapter/logger"
	"github.com/dishpatch/dishpatch/internal/interfaces"
)

// ChangeEventHandler decodes raw feed deliveries and hands them to the
// aggregator.
type ChangeEventHandler struct {
	service interfaces.AggregatorService
	logger  logger.Logger
}

func NewChangeEventHandler(service interfaces.AggregatorService, logger logger.Logger) *ChangeEventHandler {
	return &ChangeEventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ChangeEventHandler) HandleChangeEvent(ctx context.Context, body []byte) error {
	var event interfaces.ChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse change event", "", nil, err)
		return err
	}

	return h.service.HandleChangeEvent(ctx, event)
}
