package main

import (
	"net/http"
	"strings"

	"vidtube/models"

	"github.com/gin-gonic/gin"
)

func (a *App) createPlaylistHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, errInvalidInput("playlist name is required"))
		return
	}

	playlist := models.Playlist{
		OwnerID:     user.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := a.db.Create(&playlist).Error; err != nil {
		fail(c, errUpstream("failed to create playlist"))
		return
	}
	respond(c, http.StatusCreated, &playlist, "playlist created successfully")
}

func (a *App) listUserPlaylistsHandler(c *gin.Context) {
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}

	var playlists []models.Playlist
	if err := a.db.Where("owner_id = ?", userID).
		Order("created_at desc").Find(&playlists).Error; err != nil {
		fail(c, errUpstream("failed to fetch playlists"))
		return
	}
	respond(c, http.StatusOK, playlists, "playlists fetched successfully")
}

func (a *App) loadOwnedPlaylist(c *gin.Context) (*models.Playlist, error) {
	playlistID, err := parseIDParam(c, "playlistId")
	if err != nil {
		return nil, err
	}
	var playlist models.Playlist
	if err := a.db.First(&playlist, playlistID).Error; err != nil {
		return nil, errNotFound("playlist not found")
	}
	if err := requireOwner(playlist.OwnerID, currentUser(c)); err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (a *App) getPlaylistHandler(c *gin.Context) {
	playlist, err := a.loadOwnedPlaylist(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := a.db.Preload("Videos").First(playlist, playlist.ID).Error; err != nil {
		fail(c, errUpstream("failed to fetch playlist"))
		return
	}
	respond(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (a *App) updatePlaylistHandler(c *gin.Context) {
	playlist, err := a.loadOwnedPlaylist(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errInvalidInput(err.Error()))
		return
	}

	updates := map[string]interface{}{}
	if v := strings.TrimSpace(req.Name); v != "" {
		updates["name"] = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		updates["description"] = v
	}
	if len(updates) == 0 {
		fail(c, errInvalidInput("at least one field is required"))
		return
	}

	if err := a.db.Model(playlist).Updates(updates).Error; err != nil {
		fail(c, errUpstream("failed to update playlist"))
		return
	}
	respond(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (a *App) deletePlaylistHandler(c *gin.Context) {
	playlist, err := a.loadOwnedPlaylist(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := a.db.Where("playlist_id = ?", playlist.ID).
		Delete(&models.PlaylistVideo{}).Error; err != nil {
		fail(c, errUpstream("failed to delete playlist"))
		return
	}
	if err := a.db.Delete(playlist).Error; err != nil {
		fail(c, errUpstream("failed to delete playlist"))
		return
	}
	respond(c, http.StatusOK, gin.H{"playlistId": playlist.ID}, "playlist deleted successfully")
}

func (a *App) addVideoToPlaylistHandler(c *gin.Context) {
	playlist, err := a.loadOwnedPlaylist(c)
	if err != nil {
		fail(c, err)
		return
	}
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}
	var video models.Video
	if err := a.db.First(&video, videoID).Error; err != nil {
		fail(c, errNotFound("video not found"))
		return
	}

	// composite key makes this add-to-set: a duplicate add is a no-op
	entry := models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: videoID}
	if err := a.db.Create(&entry).Error; err != nil && !isUniqueConstraintError(err) {
		fail(c, errUpstream("failed to add video to playlist"))
		return
	}
	respond(c, http.StatusOK, playlist, "video added successfully to the playlist")
}

func (a *App) removeVideoFromPlaylistHandler(c *gin.Context) {
	playlist, err := a.loadOwnedPlaylist(c)
	if err != nil {
		fail(c, err)
		return
	}
	videoID, err := parseIDParam(c, "videoId")
	if err != nil {
		fail(c, err)
		return
	}

	res := a.db.Where("playlist_id = ? AND video_id = ?", playlist.ID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		fail(c, errUpstream("failed to remove video from playlist"))
		return
	}
	if res.RowsAffected == 0 {
		fail(c, errNotFound("video not found in playlist"))
		return
	}
	respond(c, http.StatusOK, playlist, "video removed successfully from playlist")
}
