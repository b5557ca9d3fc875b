package main

import (
	"net/http"
	"strconv"
	"strings"

	"vidtube/models"
	"vidtube/pkg/media"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const thumbnailMaxDim = 1280

var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

func (a *App) listVideosHandler(c *gin.Context) {
	offset, limit := pagination(c)

	q := a.db.Model(&models.Video{}).Where("published = ?", true)
	if search := strings.TrimSpace(c.Query("query")); search != "" {
		like := "%" + search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if v := c.Query("userId"); v != "" {
		ownerID, err := strconv.ParseUint(v, 10, 64)
		if err != nil || ownerID == 0 {
			fail(c, errInvalidInput("invalid userId"))
			return
		}
		q = q.Where("owner_id = ?", ownerID)
	}

	col, ok := videoSortColumns[c.DefaultQuery("sortBy", "createdAt")]
	if !ok {
		col = "created_at"
	}
	dir := "desc"
	if c.Query("sortType") == "asc" {
		dir = "asc"
	}

	var videos []models.Video
	if err := q.Preload("Owner").Order(col + " " + dir).
		Offset(offset).Limit(limit).Find(&videos).Error; err != nil {
		fail(c, errUpstream("failed to fetch videos"))
		return
	}
	respond(c, http.StatusOK, videos, "videos fetched successfully")
}

func (a *App) publishVideoHandler(c *gin.Context) {
	user := currentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	if title == "" || description == "" {
		fail(c, errInvalidInput("title and description are required"))
		return
	}
	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)
	if duration < 0 {
		duration = 0
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		fail(c, errInvalidInput("video file is required"))
		return
	}
	videoPath, err := a.saveTempUpload(c, videoFile)
	if err != nil {
		fail(c, err)
		return
	}
	videoObj, err := a.store.Upload(c.Request.Context(), videoPath, videoFile.Header.Get("Content-Type"))
	if err != nil {
		fail(c, errUpstream("failed to upload video"))
		return
	}

	thumbObj, err := a.uploadImageField(c, "thumbnail", true)
	if err != nil {
		a.deleteStoredObject(videoObj.Key)
		fail(c, err)
		return
	}

	video := models.Video{
		OwnerID:      user.ID,
		VideoFile:    videoObj.URL,
		VideoFileKey: videoObj.Key,
		Thumbnail:    thumbObj.URL,
		ThumbnailKey: thumbObj.Key,
		Title:        title,
		Description:  description,
		Duration:     duration,
		Published:    true,
	}
	if err := a.db.Create(&video).Error; err != nil {
		// clean up the assets a failed insert would orphan
		a.deleteStoredObject(videoObj.Key)
		a.deleteStoredObject(thumbObj.Key)
		fail(c, errUpstream("failed to save video"))
		return
	}
	respond(c, http.StatusCreated, &video, "video published successfully")
}

func (a *App) getVideoHandler(c *gin.Context) {
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}

	var video models.Video
	if err := a.db.Preload("Owner").First(&video, videoID).Error; err != nil {
		fail(c, errNotFound("video not found"))
		return
	}

	caller := currentUser(c)
	if err := requireVisible(video.Published, video.OwnerID, caller); err != nil {
		fail(c, err)
		return
	}

	if err := a.db.Model(&models.Video{}).Where("id = ?", video.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err == nil {
		video.Views++
	}
	if caller != nil {
		_ = a.db.Create(&models.WatchEvent{UserID: caller.ID, VideoID: video.ID}).Error
	}

	respond(c, http.StatusOK, &video, "video fetched successfully")
}

// loadOwnedVideo fetches the video and enforces ownership for mutations.
func (a *App) loadOwnedVideo(c *gin.Context) (*models.Video, error) {
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		return nil, err
	}
	var video models.Video
	if err := a.db.First(&video, videoID).Error; err != nil {
		return nil, errNotFound("video not found")
	}
	if err := requireOwner(video.OwnerID, currentUser(c)); err != nil {
		return nil, err
	}
	return &video, nil
}

func (a *App) updateVideoHandler(c *gin.Context) {
	video, err := a.loadOwnedVideo(c)
	if err != nil {
		fail(c, err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	description := strings.TrimSpace(c.PostForm("description"))
	thumbFile, fileErr := c.FormFile("thumbnail")
	if title == "" && description == "" && fileErr != nil {
		fail(c, errInvalidInput("nothing to update"))
		return
	}

	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if description != "" {
		updates["description"] = description
	}

	oldThumbKey := ""
	if fileErr == nil {
		if !media.IsImage(thumbFile.Filename) {
			fail(c, errInvalidInput("thumbnail must be an image"))
			return
		}
		path, err := a.saveTempUpload(c, thumbFile)
		if err != nil {
			fail(c, err)
			return
		}
		if err := media.Bound(path, thumbnailMaxDim); err != nil {
			fail(c, errInvalidInput("thumbnail is not a valid image"))
			return
		}
		obj, err := a.store.Upload(c.Request.Context(), path, thumbFile.Header.Get("Content-Type"))
		if err != nil {
			fail(c, errUpstream("failed to upload thumbnail"))
			return
		}
		updates["thumbnail"] = obj.URL
		updates["thumbnail_key"] = obj.Key
		oldThumbKey = video.ThumbnailKey
	}

	if err := a.db.Model(video).Updates(updates).Error; err != nil {
		if key, ok := updates["thumbnail_key"].(string); ok {
			a.deleteStoredObject(key)
		}
		fail(c, errUpstream("failed to update video"))
		return
	}
	a.deleteStoredObject(oldThumbKey)

	respond(c, http.StatusOK, video, "video updated successfully")
}

func (a *App) deleteVideoHandler(c *gin.Context) {
	video, err := a.loadOwnedVideo(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := a.db.Delete(video).Error; err != nil {
		fail(c, errUpstream("failed to delete video"))
		return
	}
	a.deleteStoredObject(video.VideoFileKey)
	a.deleteStoredObject(video.ThumbnailKey)

	respond(c, http.StatusOK, video, "video deleted successfully")
}

func (a *App) togglePublishHandler(c *gin.Context) {
	video, err := a.loadOwnedVideo(c)
	if err != nil {
		fail(c, err)
		return
	}

	video.Published = !video.Published
	if err := a.db.Model(video).Update("published", video.Published).Error; err != nil {
		fail(c, errUpstream("failed to toggle publish status"))
		return
	}
	respond(c, http.StatusOK, video, "video publish status toggled successfully")
}
