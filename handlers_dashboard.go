package main

import (
	"net/http"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

type channelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalComments    int64 `json:"totalComments"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}

func (a *App) channelStatsHandler(c *gin.Context) {
	user := currentUser(c)

	var stats channelStats
	if err := a.db.Model(&models.Video{}).Where("owner_id = ?", user.ID).
		Count(&stats.TotalVideos).Error; err != nil {
		fail(c, errUpstream("failed to fetch channel stats"))
		return
	}
	a.db.Model(&models.Video{}).Where("owner_id = ?", user.ID).
		Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews)
	a.db.Model(&models.Comment{}).
		Where("video_id IN (?)", a.db.Model(&models.Video{}).Select("id").Where("owner_id = ?", user.ID)).
		Count(&stats.TotalComments)
	a.db.Model(&models.Edge{}).
		Where("target_id = ? AND kind = ?", user.ID, models.EdgeSubscription).
		Count(&stats.TotalSubscribers)
	a.db.Model(&models.Edge{}).
		Where("kind = ? AND target_id IN (?)", models.EdgeLikeVideo,
			a.db.Model(&models.Video{}).Select("id").Where("owner_id = ?", user.ID)).
		Count(&stats.TotalLikes)

	respond(c, http.StatusOK, &stats, "channel stats fetched successfully")
}

func (a *App) channelVideosHandler(c *gin.Context) {
	user := currentUser(c)
	offset, limit := pagination(c)

	var videos []models.Video
	if err := a.db.Where("owner_id = ?", user.ID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&videos).Error; err != nil {
		fail(c, errUpstream("failed to fetch channel videos"))
		return
	}
	respond(c, http.StatusOK, videos, "channel videos fetched successfully")
}
