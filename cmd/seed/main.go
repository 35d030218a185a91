// Seed tool creating login accounts out of band, the way production
// deployments get their first credentials.
package main

import (
	"context"
	"flag"
	"log"

	"mailstats/internal/config"
	"mailstats/internal/logger"
	"mailstats/internal/service"
	"mailstats/internal/store"
)

func main() {
	configFile := flag.String("config", "", "config file")
	email := flag.String("email", "admin@example.com", "account email")
	password := flag.String("password", "admin123", "account password")
	name := flag.String("name", "Admin User", "display name")
	flag.Parse()

	logger.Init(config.LogConfig{Level: "info", Console: true})

	cfg := config.Load(*configFile)
	st, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatal("store open failed: ", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.InitSchema(ctx); err != nil {
		log.Fatal("schema init failed: ", err)
	}

	auth := service.NewAuthService(st)
	if err := auth.CreateAccount(ctx, *email, *password, *name); err != nil {
		log.Fatal("seed account failed: ", err)
	}

	logger.Info("account seeded", "email", *email, "backend", st.Backend())
}
