package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"vidtube/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Bootstrap CLI: creates an account directly in the database, bypassing the
// avatar-upload requirement of the HTTP register endpoint.
func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <username> <email> <password>")
		os.Exit(2)
	}
	username := strings.ToLower(strings.TrimSpace(os.Args[1]))
	email := strings.ToLower(strings.TrimSpace(os.Args[2]))
	password := os.Args[3]

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var existing models.User
	if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", existing.Username, existing.ID)
		os.Exit(0)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		FullName:     username,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d\n", username, user.ID)
}
