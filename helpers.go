package main

import (
	"context"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseIDParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errInvalidInput("invalid " + name)
	}
	return uint(v), nil
}

func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return (page - 1) * limit, limit
}

// saveTempUpload writes the multipart file into the temp spool under a fresh
// name; the object store removes it after a successful upload.
func (a *App) saveTempUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	path := filepath.Join(a.uploadTmpDir, uuid.New().String()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", errUpstream("failed to store uploaded file")
	}
	return path, nil
}

// deleteStoredObject removes an asset best-effort; failures are logged, not
// propagated, since the caller has already committed its own outcome.
func (a *App) deleteStoredObject(key string) {
	if key == "" {
		return
	}
	if err := a.store.Delete(context.Background(), key); err != nil {
		log.Printf("storage delete warning (%s): %v", key, err)
	}
}
