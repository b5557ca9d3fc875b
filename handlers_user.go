package main

import (
	"net/http"
	"strings"

	"vidtube/models"
	"vidtube/pkg/media"
	"vidtube/pkg/storage"

	"github.com/gin-gonic/gin"
)

const avatarMaxDim = 1024

type tokenPairResponse struct {
	User         *models.User `json:"user,omitempty"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// uploadImageField saves, bounds and uploads one multipart image field.
// Returns nil object when the field is absent and required is false.
func (a *App) uploadImageField(c *gin.Context, field string, required bool) (*storage.Object, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if required {
			return nil, errInvalidInput(field + " file is required")
		}
		return nil, nil
	}
	if !media.IsImage(fh.Filename) {
		return nil, errInvalidInput(field + " must be an image")
	}
	path, err := a.saveTempUpload(c, fh)
	if err != nil {
		return nil, err
	}
	if err := media.Bound(path, avatarMaxDim); err != nil {
		return nil, errInvalidInput(field + " is not a valid image")
	}
	obj, err := a.store.Upload(c.Request.Context(), path, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, errUpstream("failed to upload " + field)
	}
	return obj, nil
}

func (a *App) registerHandler(c *gin.Context) {
	username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	fullName := strings.TrimSpace(c.PostForm("fullname"))
	password := c.PostForm("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		fail(c, errInvalidInput("all fields are required"))
		return
	}
	if !strings.Contains(email, "@") {
		fail(c, errInvalidInput("invalid email address"))
		return
	}
	if len(password) < minPasswordLen {
		fail(c, errInvalidInput("password too short (min 6)"))
		return
	}

	// pre-check existing (optimistic); the unique indexes still catch races
	var existing models.User
	if err := a.db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		fail(c, errConflict("user already exists with email or username"))
		return
	}

	avatar, err := a.uploadImageField(c, "avatar", true)
	if err != nil {
		fail(c, err)
		return
	}
	cover, err := a.uploadImageField(c, "coverImage", false)
	if err != nil {
		a.deleteStoredObject(avatar.Key)
		fail(c, err)
		return
	}

	hash, err := hashPassword(password)
	if err != nil {
		fail(c, errUpstream("failed to hash password"))
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Avatar:       avatar.URL,
		AvatarKey:    avatar.Key,
		PasswordHash: hash,
	}
	if cover != nil {
		user.CoverImage = cover.URL
		user.CoverImageKey = cover.Key
	}
	if err := a.db.Create(&user).Error; err != nil {
		// don't leave orphaned assets behind a failed registration
		a.deleteStoredObject(avatar.Key)
		if cover != nil {
			a.deleteStoredObject(cover.Key)
		}
		if isUniqueConstraintError(err) {
			fail(c, errConflict("user already exists with email or username"))
			return
		}
		fail(c, errUpstream("failed to create user"))
		return
	}

	respond(c, http.StatusCreated, &user, "user registered successfully")
}

func (a *App) loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errInvalidInput(err.Error()))
		return
	}
	if req.Username == "" && req.Email == "" {
		fail(c, errInvalidInput("username or email is required"))
		return
	}

	var user models.User
	err := a.db.Where("username = ? OR email = ?",
		strings.ToLower(strings.TrimSpace(req.Username)),
		strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		fail(c, errUnauthenticated("invalid credentials"))
		return
	}

	access, refresh, err := a.issueTokenPair(&user)
	if err != nil {
		fail(c, errUpstream("failed to issue tokens"))
		return
	}
	a.setAuthCookies(c, access, refresh)

	user.PasswordHash = nil
	user.RefreshToken = ""
	respond(c, http.StatusOK, tokenPairResponse{User: &user, AccessToken: access, RefreshToken: refresh}, "login successful")
}

func (a *App) logoutHandler(c *gin.Context) {
	user := currentUser(c)
	if err := a.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("refresh_token", "").Error; err != nil {
		fail(c, errUpstream("failed to log out"))
		return
	}
	a.clearAuthCookies(c)
	respond(c, http.StatusOK, nil, "logged out successfully")
}

// refreshTokenHandler rotates the session. The presented refresh token must
// match the value stored for the subject exactly; any mismatch (stale token
// after rotation, token after logout) is rejected and no new pair is issued.
func (a *App) refreshTokenHandler(c *gin.Context) {
	raw, _ := c.Cookie("refreshToken")
	if raw == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = c.ShouldBindJSON(&req)
		raw = req.RefreshToken
	}
	if raw == "" {
		fail(c, errUnauthenticated("refresh token is required"))
		return
	}

	userID, err := a.tokens.VerifyRefresh(raw)
	if err != nil {
		fail(c, errUnauthenticated("invalid refresh token"))
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		fail(c, errUnauthenticated("invalid refresh token"))
		return
	}

	// the rotation write is conditional on the presented token still being
	// the stored one, so concurrent replays of the same value can't all win
	access, refresh, err := a.rotateTokenPair(&user, raw)
	if err != nil {
		if _, ok := err.(*apiError); ok {
			fail(c, err)
		} else {
			fail(c, errUpstream("failed to issue tokens"))
		}
		return
	}
	a.setAuthCookies(c, access, refresh)
	respond(c, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh}, "tokens refreshed successfully")
}

func (a *App) changePasswordHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errInvalidInput(err.Error()))
		return
	}
	if len(req.NewPassword) < minPasswordLen {
		fail(c, errInvalidInput("password too short (min 6)"))
		return
	}

	// the hydrated context user has no hash; fetch it for verification
	var full models.User
	if err := a.db.First(&full, user.ID).Error; err != nil {
		fail(c, errUpstream("failed to load user"))
		return
	}
	if !checkPassword(full.PasswordHash, req.OldPassword) {
		fail(c, errInvalidInput("old password is incorrect"))
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		fail(c, errUpstream("failed to hash password"))
		return
	}
	if err := a.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", hash).Error; err != nil {
		fail(c, errUpstream("failed to change password"))
		return
	}
	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (a *App) currentUserHandler(c *gin.Context) {
	respond(c, http.StatusOK, currentUser(c), "current user fetched successfully")
}

func (a *App) updateAccountHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errInvalidInput(err.Error()))
		return
	}

	updates := map[string]interface{}{}
	if v := strings.TrimSpace(req.FullName); v != "" {
		updates["full_name"] = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		if !strings.Contains(v, "@") {
			fail(c, errInvalidInput("invalid email address"))
			return
		}
		updates["email"] = v
	}
	if len(updates) == 0 {
		fail(c, errInvalidInput("at least one field is required"))
		return
	}

	if err := a.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			fail(c, errConflict("email already in use"))
			return
		}
		fail(c, errUpstream("failed to update account"))
		return
	}

	var updated models.User
	if err := a.db.Omit("password_hash", "refresh_token").First(&updated, user.ID).Error; err != nil {
		fail(c, errUpstream("failed to load user"))
		return
	}
	respond(c, http.StatusOK, &updated, "account updated successfully")
}

func (a *App) updateAvatarHandler(c *gin.Context) {
	a.replaceUserImage(c, "avatar")
}

func (a *App) updateCoverImageHandler(c *gin.Context) {
	a.replaceUserImage(c, "coverImage")
}

// replaceUserImage swaps the avatar or cover image: upload new, point the
// row at it, then drop the previous object.
func (a *App) replaceUserImage(c *gin.Context, field string) {
	user := currentUser(c)

	obj, err := a.uploadImageField(c, field, true)
	if err != nil {
		fail(c, err)
		return
	}

	urlCol, keyCol := "avatar", "avatar_key"
	oldKey := user.AvatarKey
	if field == "coverImage" {
		urlCol, keyCol = "cover_image", "cover_image_key"
		oldKey = user.CoverImageKey
	}

	if err := a.db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{urlCol: obj.URL, keyCol: obj.Key}).Error; err != nil {
		a.deleteStoredObject(obj.Key)
		fail(c, errUpstream("failed to update "+field))
		return
	}
	a.deleteStoredObject(oldKey)

	var updated models.User
	if err := a.db.Omit("password_hash", "refresh_token").First(&updated, user.ID).Error; err != nil {
		fail(c, errUpstream("failed to load user"))
		return
	}
	respond(c, http.StatusOK, &updated, field+" updated successfully")
}

type channelProfile struct {
	models.User
	SubscriberCount   int64 `json:"subscriberCount"`
	SubscribedToCount int64 `json:"subscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}

func (a *App) channelProfileHandler(c *gin.Context) {
	caller := currentUser(c)
	username := strings.ToLower(strings.TrimSpace(c.Param("username")))
	if username == "" {
		fail(c, errInvalidInput("username is required"))
		return
	}

	var user models.User
	if err := a.db.Omit("password_hash", "refresh_token").
		Where("username = ?", username).First(&user).Error; err != nil {
		fail(c, errNotFound("channel not found"))
		return
	}

	profile := channelProfile{User: user}
	a.db.Model(&models.Edge{}).
		Where("target_id = ? AND kind = ?", user.ID, models.EdgeSubscription).
		Count(&profile.SubscriberCount)
	a.db.Model(&models.Edge{}).
		Where("actor_id = ? AND kind = ?", user.ID, models.EdgeSubscription).
		Count(&profile.SubscribedToCount)
	if caller != nil {
		var n int64
		a.db.Model(&models.Edge{}).
			Where("actor_id = ? AND target_id = ? AND kind = ?", caller.ID, user.ID, models.EdgeSubscription).
			Count(&n)
		profile.IsSubscribed = n > 0
	}

	respond(c, http.StatusOK, &profile, "channel profile fetched successfully")
}

func (a *App) watchHistoryHandler(c *gin.Context) {
	user := currentUser(c)
	offset, limit := pagination(c)

	var events []models.WatchEvent
	if err := a.db.Preload("Video").Preload("Video.Owner").
		Where("user_id = ?", user.ID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&events).Error; err != nil {
		fail(c, errUpstream("failed to fetch watch history"))
		return
	}

	videos := make([]*models.Video, 0, len(events))
	for _, e := range events {
		if e.Video != nil {
			videos = append(videos, e.Video)
		}
	}
	respond(c, http.StatusOK, videos, "watch history fetched successfully")
}
