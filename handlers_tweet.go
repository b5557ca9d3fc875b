package main

import (
	"net/http"
	"strings"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

func (a *App) createTweetHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, errInvalidInput("tweet content is required"))
		return
	}

	tweet := models.Tweet{OwnerID: user.ID, Content: strings.TrimSpace(req.Content)}
	if err := a.db.Create(&tweet).Error; err != nil {
		fail(c, errUpstream("failed to create tweet"))
		return
	}
	respond(c, http.StatusCreated, &tweet, "tweet created successfully")
}

func (a *App) listUserTweetsHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}
	offset, limit := pagination(c)

	var tweets []models.Tweet
	if err := a.db.Where("owner_id = ?", userID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&tweets).Error; err != nil {
		fail(c, errUpstream("failed to fetch tweets"))
		return
	}
	respond(c, http.StatusOK, tweets, "tweets fetched successfully")
}

func (a *App) loadOwnedTweet(c *gin.Context) (*models.Tweet, error) {
	tweetID, err := parseIDParam(c, "tweetId")
	if err != nil {
		return nil, err
	}
	var tweet models.Tweet
	if err := a.db.First(&tweet, tweetID).Error; err != nil {
		return nil, errNotFound("tweet not found")
	}
	if err := requireOwner(tweet.OwnerID, currentUser(c)); err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (a *App) updateTweetHandler(c *gin.Context) {
	tweet, err := a.loadOwnedTweet(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, errInvalidInput("tweet content is required"))
		return
	}

	if err := a.db.Model(tweet).Update("content", strings.TrimSpace(req.Content)).Error; err != nil {
		fail(c, errUpstream("failed to update tweet"))
		return
	}
	respond(c, http.StatusOK, tweet, "tweet updated successfully")
}

func (a *App) deleteTweetHandler(c *gin.Context) {
	tweet, err := a.loadOwnedTweet(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := a.db.Delete(tweet).Error; err != nil {
		fail(c, errUpstream("failed to delete tweet"))
		return
	}
	respond(c, http.StatusOK, tweet, "tweet deleted successfully")
}
