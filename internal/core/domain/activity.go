package domain

import "time"

// CardAction names the mutation recorded in the activity trail.
type CardAction string

const (
	ActionCreated CardAction = "created"
	ActionUpdated CardAction = "updated"
	ActionDeleted CardAction = "deleted"
)

// CardActivity records a single successful mutation of a card.
type CardActivity struct {
	CardID  string
	ActorID string
	Action  CardAction
	At      time.Time
}
