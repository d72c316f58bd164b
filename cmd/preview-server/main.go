package main

import (
	"log"

	"tablo-backend/internal/api"
	"tablo-backend/internal/api/router"
	"tablo-backend/internal/database"
	"tablo-backend/internal/env"
	"tablo-backend/internal/preview"
	"tablo-backend/internal/queue"
)

func main() {
	env.MustValidate()

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	hub := preview.NewHub()
	go hub.Run()
	handler := preview.NewHandler(hub)

	server := api.NewAPIServer(
		":83",
		queueManager,
		db,
		handler,
		router.UtilsRoutes("/api/preview/v1"),
		router.PreviewRoutes("/api/preview/v1"),
	)

	server.Run()
}
