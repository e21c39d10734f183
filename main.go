package main

import (
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"echonet/config"
	"echonet/database"
	"echonet/handlers"
	"echonet/logger"
	"echonet/repositories"
	"echonet/routes"
	"echonet/session"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogFile)

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	sessions := session.NewManager(cfg.SessionSecret)

	authHandler := handlers.NewAuthHandler(userRepo, sessions)
	postHandler := handlers.NewPostHandler(postRepo, cfg.PublicDir, cfg.UploadDir)
	messageHandler := handlers.NewMessageHandler(messageRepo)
	presenceHandler := handlers.NewPresenceHandler(userRepo)

	router := routes.SetupRoutes(authHandler, postHandler, messageHandler, presenceHandler, sessions, cfg.PublicDir)

	logrus.Infof("EchoNet running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logrus.Fatal(err)
	}
}
