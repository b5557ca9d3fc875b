package main

import (
	"vidtube/models"

	"github.com/gin-gonic/gin"
)

// issueTokenPair mints a fresh access/refresh pair and persists the new
// refresh token on the user row. The overwrite is what makes rotation
// fail-closed: the previous refresh value can never be presented again.
func (a *App) issueTokenPair(user *models.User) (string, string, error) {
	access, err := a.tokens.IssueAccess(user.ID, user.Username, user.Email, user.FullName)
	if err != nil {
		return "", "", err
	}
	refresh, err := a.tokens.IssueRefresh(user.ID)
	if err != nil {
		return "", "", err
	}
	if err := a.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("refresh_token", refresh).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// rotateTokenPair exchanges a presented refresh token for a fresh pair. The
// overwrite is conditional on the stored value still matching the presented
// one, so of any number of concurrent calls presenting the same token exactly
// one can win; the rest observe a stale token and get nothing.
func (a *App) rotateTokenPair(user *models.User, presented string) (string, string, error) {
	access, err := a.tokens.IssueAccess(user.ID, user.Username, user.Email, user.FullName)
	if err != nil {
		return "", "", err
	}
	refresh, err := a.tokens.IssueRefresh(user.ID)
	if err != nil {
		return "", "", err
	}
	res := a.db.Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", user.ID, presented).
		Update("refresh_token", refresh)
	if res.Error != nil {
		return "", "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", "", errUnauthenticated("refresh token is expired or used")
	}
	return access, refresh, nil
}

// Tokens ride both in HTTP-only cookies (browser clients) and in the JSON
// body (everyone else).

func (a *App) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetCookie("accessToken", access, int(a.tokens.AccessTTL().Seconds()), "/", "", a.cookieSecure, true)
	c.SetCookie("refreshToken", refresh, int(a.tokens.RefreshTTL().Seconds()), "/", "", a.cookieSecure, true)
}

func (a *App) clearAuthCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", a.cookieSecure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", a.cookieSecure, true)
}
