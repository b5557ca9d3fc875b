package main

import (
	"errors"
	"log"
	"strings"

	"vidtube/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func initDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		for _, m := range []interface{}{
			&models.User{},
			&models.Video{},
			&models.Comment{},
			&models.Tweet{},
			&models.Playlist{},
			&models.PlaylistVideo{},
			&models.Edge{},
			&models.WatchEvent{},
		} {
			if err := db.AutoMigrate(m); err != nil {
				log.Printf("migration warning (%T): %v", m, err)
			}
		}
	}
	return db, nil
}

// isUniqueConstraintError reports whether err is a unique-index violation.
// Used to translate insert races into domain outcomes instead of 500s.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint")
}
