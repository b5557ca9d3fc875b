package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *App) healthcheckHandler(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"healthy": true}, "ok")
}
