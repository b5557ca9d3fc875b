package main

import (
	"context"
	"log"

	"vidtube/pkg/storage"
	"vidtube/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect postgres database: %v", err)
	}

	store, err := storage.NewS3(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	tokens := token.NewService(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	app := newApp(db, tokens, store, cfg)

	r := gin.Default()
	app.setupRoutes(r)

	log.Printf("listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
