package main

import (
	"net/http"
	"strings"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

func (a *App) listCommentsHandler(c *gin.Context) {
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	offset, limit := pagination(c)

	var comments []models.Comment
	if err := a.db.Preload("Owner").Where("video_id = ?", videoID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&comments).Error; err != nil {
		fail(c, errUpstream("failed to fetch comments"))
		return
	}
	respond(c, http.StatusOK, comments, "comments fetched successfully")
}

func (a *App) addCommentHandler(c *gin.Context) {
	user := currentUser(c)
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errInvalidInput("comment content is required"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		fail(c, errInvalidInput("comment content is required"))
		return
	}

	var video models.Video
	if err := a.db.First(&video, videoID).Error; err != nil {
		fail(c, errNotFound("video not found"))
		return
	}
	if err := requireVisible(video.Published, video.OwnerID, user); err != nil {
		fail(c, err)
		return
	}

	comment := models.Comment{OwnerID: user.ID, VideoID: videoID, Content: content}
	if err := a.db.Create(&comment).Error; err != nil {
		fail(c, errUpstream("failed to add comment"))
		return
	}
	respond(c, http.StatusCreated, &comment, "comment added successfully")
}

func (a *App) loadOwnedComment(c *gin.Context) (*models.Comment, error) {
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := a.db.First(&comment, commentID).Error; err != nil {
		return nil, errNotFound("comment not found")
	}
	if err := requireOwner(comment.OwnerID, currentUser(c)); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (a *App) updateCommentHandler(c *gin.Context) {
	comment, err := a.loadOwnedComment(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		fail(c, errInvalidInput("comment content is required"))
		return
	}

	if err := a.db.Model(comment).Update("content", strings.TrimSpace(req.Content)).Error; err != nil {
		fail(c, errUpstream("failed to update comment"))
		return
	}
	respond(c, http.StatusOK, comment, "comment updated successfully")
}

func (a *App) deleteCommentHandler(c *gin.Context) {
	comment, err := a.loadOwnedComment(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := a.db.Delete(comment).Error; err != nil {
		fail(c, errUpstream("failed to delete comment"))
		return
	}
	respond(c, http.StatusOK, nil, "comment deleted successfully")
}
