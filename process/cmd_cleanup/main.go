package main

import (
	"vidtube/process/cleanup"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cleanup.Run()
}
