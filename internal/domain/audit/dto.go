package audit

import "time"

type EntryResponse struct {
	ID         string  `json:"id"`
	ActorID    string  `json:"actor_id"`
	Action     string  `json:"action"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Reason     *string `json:"reason,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		Reason:     e.Reason,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
