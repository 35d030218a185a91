package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"mailstats/internal/config"
	"mailstats/internal/handler"
	"mailstats/internal/logger"
	"mailstats/internal/middleware"
	"mailstats/internal/service"
	"mailstats/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	st, err := store.Open(cfg.Database)
	if err != nil {
		slog.Error("store open failed", "err", err)
		os.Exit(1)
	}
	store.SetDefault(st)
	if err := st.InitSchema(context.Background()); err != nil {
		slog.Error("schema init failed", "err", err)
		os.Exit(1)
	}
	slog.Info("store ready", "backend", st.Backend())

	statsSvc := service.NewStatsService(st)
	authSvc := service.NewAuthService(st)

	authH := handler.NewAuthHandler(authSvc)
	uploadH := handler.NewUploadHandler(statsSvc, cfg.Upload.Dir)
	statsH := handler.NewStatsHandler(statsSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)
	r.POST("/api/init", authH.Init)

	api := r.Group("/api", middleware.JWTAuth())
	api.POST("/upload", uploadH.Upload)
	api.GET("/stats", statsH.Stats)
	api.GET("/summary", statsH.Summary)
	api.POST("/auth/create-user", authH.CreateUser)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
