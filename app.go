package main

import (
	"vidtube/pkg/storage"
	"vidtube/pkg/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App wires the components together. Everything is constructed once at
// process start and injected; handlers are methods so they share no globals.
type App struct {
	db           *gorm.DB
	tokens       *token.Service
	store        storage.Store
	cookieSecure bool
	uploadTmpDir string
}

func newApp(db *gorm.DB, tokens *token.Service, store storage.Store, cfg *Config) *App {
	return &App{
		db:           db,
		tokens:       tokens,
		store:        store,
		cookieSecure: cfg.CookieSecure,
		uploadTmpDir: cfg.UploadTmpDir,
	}
}

func (a *App) setupRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	v1.GET("/healthcheck", a.healthcheckHandler)

	users := v1.Group("/users")
	users.POST("/register", a.registerHandler)
	users.POST("/login", a.loginHandler)
	users.POST("/refresh-token", a.refreshTokenHandler)
	usersAuth := users.Group("", a.requireAuth())
	usersAuth.POST("/logout", a.logoutHandler)
	usersAuth.POST("/change-password", a.changePasswordHandler)
	usersAuth.GET("/current-user", a.currentUserHandler)
	usersAuth.PATCH("/update-account", a.updateAccountHandler)
	usersAuth.PATCH("/avatar", a.updateAvatarHandler)
	usersAuth.PATCH("/cover-image", a.updateCoverImageHandler)
	usersAuth.GET("/c/:username", a.channelProfileHandler)
	usersAuth.GET("/history", a.watchHistoryHandler)

	videos := v1.Group("/videos")
	videos.GET("", a.listVideosHandler)
	videos.GET("/:videoId", a.optionalAuth(), a.getVideoHandler)
	videosAuth := videos.Group("", a.requireAuth())
	videosAuth.POST("", a.publishVideoHandler)
	videosAuth.PATCH("/:videoId", a.updateVideoHandler)
	videosAuth.DELETE("/:videoId", a.deleteVideoHandler)
	videosAuth.PATCH("/toggle/publish/:videoId", a.togglePublishHandler)

	comments := v1.Group("/comments")
	comments.GET("/:videoId", a.listCommentsHandler)
	commentsAuth := comments.Group("", a.requireAuth())
	commentsAuth.POST("/:videoId", a.addCommentHandler)
	commentsAuth.PATCH("/c/:commentId", a.updateCommentHandler)
	commentsAuth.DELETE("/c/:commentId", a.deleteCommentHandler)

	likes := v1.Group("/likes", a.requireAuth())
	likes.POST("/toggle/v/:videoId", a.toggleVideoLikeHandler)
	likes.POST("/toggle/c/:commentId", a.toggleCommentLikeHandler)
	likes.POST("/toggle/t/:tweetId", a.toggleTweetLikeHandler)
	likes.GET("/videos", a.likedVideosHandler)

	subs := v1.Group("/subscriptions")
	subs.POST("/c/:channelId", a.requireAuth(), a.toggleSubscriptionHandler)
	subs.GET("/c/:channelId", a.channelSubscribersHandler)
	subs.GET("/u/:subscriberId", a.subscribedChannelsHandler)

	tweets := v1.Group("/tweets")
	tweets.GET("/user/:userId", a.listUserTweetsHandler)
	tweetsAuth := tweets.Group("", a.requireAuth())
	tweetsAuth.POST("", a.createTweetHandler)
	tweetsAuth.PATCH("/:tweetId", a.updateTweetHandler)
	tweetsAuth.DELETE("/:tweetId", a.deleteTweetHandler)

	playlists := v1.Group("/playlists")
	playlists.GET("/user/:userId", a.listUserPlaylistsHandler)
	playlistsAuth := playlists.Group("", a.requireAuth())
	playlistsAuth.POST("", a.createPlaylistHandler)
	playlistsAuth.GET("/:playlistId", a.getPlaylistHandler)
	playlistsAuth.PATCH("/:playlistId", a.updatePlaylistHandler)
	playlistsAuth.DELETE("/:playlistId", a.deletePlaylistHandler)
	playlistsAuth.PATCH("/add/:videoId/:playlistId", a.addVideoToPlaylistHandler)
	playlistsAuth.PATCH("/remove/:videoId/:playlistId", a.removeVideoFromPlaylistHandler)

	dashboard := v1.Group("/dashboard", a.requireAuth())
	dashboard.GET("/stats", a.channelStatsHandler)
	dashboard.GET("/videos", a.channelVideosHandler)
}
