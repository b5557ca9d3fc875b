package models

import "time"

// EdgeKind discriminates the relationship an Edge encodes.
type EdgeKind string

const (
	EdgeSubscription EdgeKind = "subscription" // actor subscribes to target user (channel)
	EdgeLikeVideo    EdgeKind = "like:video"
	EdgeLikeComment  EdgeKind = "like:comment"
	EdgeLikeTweet    EdgeKind = "like:tweet"
)

// Edge is a directed relationship tuple (actor, target, kind). Its existence
// IS the boolean state (subscribed / liked); there is no separate flag that
// could drift out of sync. The composite unique index makes concurrent
// toggle-on calls collide instead of inserting duplicates.
type Edge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ActorID   uint      `gorm:"not null;uniqueIndex:idx_edge_tuple" json:"actorId"`
	TargetID  uint      `gorm:"not null;uniqueIndex:idx_edge_tuple" json:"targetId"`
	Kind      EdgeKind  `gorm:"size:32;not null;uniqueIndex:idx_edge_tuple" json:"kind"`
}
