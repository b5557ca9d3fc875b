package main

import (
	"net/http"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

// The three like endpoints are the same toggle with a different kind; the
// target-id param name is the only thing that varies.

func (a *App) toggleLike(c *gin.Context, param string, kind models.EdgeKind) {
	user := currentUser(c)
	targetID, err := parseIDParam(c, param)
	if err != nil {
		fail(c, err)
		return
	}
	result, err := a.toggleEdge(user.ID, targetID, kind)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "liked successfully"
	if result.State == toggleRemoved {
		msg = "unliked successfully"
	}
	respond(c, http.StatusOK, result, msg)
}

func (a *App) toggleVideoLikeHandler(c *gin.Context) {
	a.toggleLike(c, "videoId", models.EdgeLikeVideo)
}

func (a *App) toggleCommentLikeHandler(c *gin.Context) {
	a.toggleLike(c, "commentId", models.EdgeLikeComment)
}

func (a *App) toggleTweetLikeHandler(c *gin.Context) {
	a.toggleLike(c, "tweetId", models.EdgeLikeTweet)
}

func (a *App) likedVideosHandler(c *gin.Context) {
	user := currentUser(c)
	offset, limit := pagination(c)

	liked := a.db.Model(&models.Edge{}).Select("target_id").
		Where("actor_id = ? AND kind = ?", user.ID, models.EdgeLikeVideo)

	// drafts stay owner-only even when they were liked while published
	var videos []models.Video
	if err := a.db.Preload("Owner").Where("id IN (?)", liked).
		Where("published = ? OR owner_id = ?", true, user.ID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&videos).Error; err != nil {
		fail(c, errUpstream("failed to fetch liked videos"))
		return
	}
	respond(c, http.StatusOK, videos, "liked videos fetched successfully")
}
