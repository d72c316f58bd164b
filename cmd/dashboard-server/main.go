package main

import (
	"log"

	"tablo-backend/internal/api"
	"tablo-backend/internal/api/router"
	"tablo-backend/internal/database"
	"tablo-backend/internal/env"
	"tablo-backend/internal/queue"
)

func main() {
	env.MustValidate()

	queueManager := queue.NewRequestQueueManager(10, 10)
	db, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	server := api.NewAPIServer(
		":81",
		queueManager,
		db,
		nil,
		router.UtilsRoutes("/api/dashboard/v1"),
		router.EmbedRoutes("/api/dashboard/v1"),
	)

	server.Run()
}
