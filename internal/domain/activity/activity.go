// Package activity records changes made to a team: policy edits and video
// edits, moves and removals.
package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action names what happened.
type Action string

const (
	ActionPolicyChanged Action = "policy_changed"
	ActionVideoAdded    Action = "video_added"
	ActionVideoUpdated  Action = "video_updated"
	ActionVideoMoved    Action = "video_moved"
	ActionVideoRemoved  Action = "video_removed"
)

// Resource types an event can point at.
const (
	ResourceTeam  = "team"
	ResourceVideo = "video"
)

var (
	ErrTeamRequired    = errors.New("activity event needs a team")
	ErrUnknownAction   = errors.New("unknown activity action")
	ErrInvalidPageSize = errors.New("activity limit must be positive")
)

// Event is one entry in a team's activity log.
type Event struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	Actor        string    `json:"actor"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Description  string    `json:"description"`
}

// NewEvent creates an event stamped with now. An empty actor means the
// change came from the system (fixtures, maintenance).
// POST: ID is a fresh UUID
func NewEvent(teamID, actor string, action Action, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Timestamp: now.UTC(),
		Action:    action,
		Actor:     actor,
	}
}

// WithResource points the event at the changed resource.
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets a human readable summary.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// Validate checks the event can be stored.
// PRE: none
// POST: returns nil when TeamID is set and Action is known
func (e Event) Validate() error {
	if e.TeamID == "" {
		return ErrTeamRequired
	}
	switch e.Action {
	case ActionPolicyChanged, ActionVideoAdded, ActionVideoUpdated, ActionVideoMoved, ActionVideoRemoved:
		return nil
	}
	return ErrUnknownAction
}
