package main

import "vidtube/models"

// Pure authorization predicates. Every mutating handler runs requireOwner
// before touching the resource; read handlers that can expose drafts run
// requireVisible.

func requireOwner(ownerID uint, user *models.User) error {
	if user == nil {
		return errUnauthenticated("unauthorized request")
	}
	if ownerID != user.ID {
		return errForbidden("you do not own this resource")
	}
	return nil
}

// requireVisible allows published resources to anyone and drafts to the
// owner only.
func requireVisible(published bool, ownerID uint, user *models.User) error {
	if published {
		return nil
	}
	if user != nil && user.ID == ownerID {
		return nil
	}
	return errForbidden("this resource is not published")
}
