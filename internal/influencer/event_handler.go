package influencer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nxthub/influencer-ops/internal/core/events"
)

// EventHandler keeps the influencer roster's last-promotion columns in
// sync with the campaign workflow. A completed campaign stamps the
// influencer with the paying department, the completion date and the
// budget paid.
type EventHandler struct {
	repo   Repository
	logger *slog.Logger
}

func NewEventHandler(repo Repository, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *EventHandler) HandleCampaignCompleted(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s", event.Payload(), event.EventType())
	}

	influencerID, _ := data["influencer_id"].(string)
	department, _ := data["department"].(string)
	budget, _ := data["budget"].(int64)
	completionDate, _ := data["completion_date"].(time.Time)

	if influencerID == "" {
		h.logger.Error("campaign completed event without influencer id", "event_id", event.EventID())
		return fmt.Errorf("campaign completed event %s missing influencer id", event.EventID())
	}

	if err := h.repo.RecordPromotion(influencerID, department, completionDate, budget); err != nil {
		h.logger.Error("failed to record promotion",
			"influencer_id", influencerID,
			"event_id", event.EventID(),
			"error", err)
		return fmt.Errorf("record promotion for influencer %s: %w", influencerID, err)
	}

	h.logger.Info("promotion recorded",
		"influencer_id", influencerID,
		"department", department,
		"price_paid", budget)

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventCampaignCompleted, h.HandleCampaignCompleted)

	h.logger.Info("influencer event handlers registered",
		"handlers", []string{events.EventCampaignCompleted})
}
