package main

import (
	"net/http"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

func (a *App) toggleSubscriptionHandler(c *gin.Context) {
	user := currentUser(c)
	channelID, err := parseIDParam(c, "channelId")
	if err != nil {
		fail(c, err)
		return
	}

	// subscriptions point at users; make sure the channel exists
	var channel models.User
	if err := a.db.Select("id").First(&channel, channelID).Error; err != nil {
		fail(c, errNotFound("channel not found"))
		return
	}

	result, err := a.toggleEdge(user.ID, channelID, models.EdgeSubscription)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "subscribed successfully"
	if result.State == toggleRemoved {
		msg = "unsubscribed successfully"
	}
	respond(c, http.StatusOK, result, msg)
}

func (a *App) channelSubscribersHandler(c *gin.Context) {
	channelID, err := parseIDParam(c, "channelId")
	if err != nil {
		fail(c, err)
		return
	}

	subscriberIDs := a.db.Model(&models.Edge{}).Select("actor_id").
		Where("target_id = ? AND kind = ?", channelID, models.EdgeSubscription)

	var subscribers []models.User
	if err := a.db.Omit("password_hash", "refresh_token").
		Where("id IN (?)", subscriberIDs).Find(&subscribers).Error; err != nil {
		fail(c, errUpstream("failed to fetch subscribers"))
		return
	}
	respond(c, http.StatusOK, subscribers, "channel subscribers fetched successfully")
}

func (a *App) subscribedChannelsHandler(c *gin.Context) {
	subscriberID, err := parseIDParam(c, "subscriberId")
	if err != nil {
		fail(c, err)
		return
	}

	channelIDs := a.db.Model(&models.Edge{}).Select("target_id").
		Where("actor_id = ? AND kind = ?", subscriberID, models.EdgeSubscription)

	var channels []models.User
	if err := a.db.Omit("password_hash", "refresh_token").
		Where("id IN (?)", channelIDs).Find(&channels).Error; err != nil {
		fail(c, errUpstream("failed to fetch subscribed channels"))
		return
	}
	respond(c, http.StatusOK, channels, "subscribed channels fetched successfully")
}
