package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCampaignStatusChanged = "campaign.status_changed"
	EventCampaignCompleted     = "campaign.completed"
	EventAccessRequestResolved = "access_request.resolved"
)

func NewCampaignStatusChangedEvent(campaignID, fromStatus, toStatus, changedBy, summary string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventCampaignStatusChanged,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"campaign_id": campaignID,
			"from_status": fromStatus,
			"to_status":   toStatus,
			"changed_by":  changedBy,
			"summary":     summary,
		},
	}
}

func NewCampaignCompletedEvent(campaignID, influencerID, department string, budget int64, completionDate time.Time, completedBy string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventCampaignCompleted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"campaign_id":     campaignID,
			"influencer_id":   influencerID,
			"department":      department,
			"budget":          budget,
			"completion_date": completionDate,
			"completed_by":    completedBy,
		},
	}
}

func NewAccessRequestResolvedEvent(requestID, influencerID, requesterEmail, status, resolvedBy string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventAccessRequestResolved,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"request_id":      requestID,
			"influencer_id":   influencerID,
			"requester_email": requesterEmail,
			"status":          status,
			"resolved_by":     resolvedBy,
		},
	}
}
