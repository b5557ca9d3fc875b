package main

import (
	"vidtube/models"
)

// The single toggle primitive behind every like/subscribe endpoint.

const (
	toggleCreated = "created"
	toggleRemoved = "removed"
)

type toggleResult struct {
	State string       `json:"state"`
	Edge  *models.Edge `json:"edge,omitempty"`
}

// toggleEdge flips the (actor, target, kind) edge: delete it if present,
// create it otherwise. The delete is keyed on the full tuple so its
// rows-affected count decides the branch atomically; a unique-index
// violation on create means a concurrent call already created the edge, and
// is reported as created rather than surfaced as a constraint error.
func (a *App) toggleEdge(actorID, targetID uint, kind models.EdgeKind) (*toggleResult, error) {
	if targetID == 0 {
		return nil, errInvalidInput("invalid target id")
	}
	if kind == models.EdgeSubscription && actorID == targetID {
		return nil, errInvalidInput("cannot subscribe to your own channel")
	}

	res := a.db.Where("actor_id = ? AND target_id = ? AND kind = ?", actorID, targetID, kind).
		Delete(&models.Edge{})
	if res.Error != nil {
		return nil, errUpstream("toggle failed")
	}
	if res.RowsAffected > 0 {
		return &toggleResult{State: toggleRemoved}, nil
	}

	edge := models.Edge{ActorID: actorID, TargetID: targetID, Kind: kind}
	if err := a.db.Create(&edge).Error; err != nil {
		if isUniqueConstraintError(err) {
			// lost the race to a concurrent toggle-on; the edge exists
			return &toggleResult{State: toggleCreated}, nil
		}
		return nil, errUpstream("toggle failed")
	}
	return &toggleResult{State: toggleCreated, Edge: &edge}, nil
}
