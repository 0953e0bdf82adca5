package main

import (
	"net/http"
	"os"

	"warbler/database"
	"warbler/handlers"
	"warbler/logger"
	"warbler/models"
	"warbler/repositories"
	"warbler/routes"

	"github.com/sirupsen/logrus"
)

func main() {
	logger.InitLogger()

	db, err := database.Connect()
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		logrus.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	userHandler := handlers.NewUserHandler(userRepo, messageRepo)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo)

	router := routes.SetupRoutes(userHandler, messageHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000" // Default if PORT is not set
	}

	logrus.Infof("Server started on port: %s", port)
	logrus.Fatal(http.ListenAndServe(":"+port, router))
}
