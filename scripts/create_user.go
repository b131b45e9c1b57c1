package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

func main() {
	username := flag.String("username", "rh", "username of the account")
	password := flag.String("password", "rh", "initial password")
	role := flag.String("role", models.RoleRH, "role of the account")
	modules := flag.String("modules", models.ModuleAll, "comma separated permitted modules")
	flag.Parse()

	fmt.Printf("🌱 Seeding user %q...\n", *username)

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	config.InitMongoDB()
	if config.MongoDB == nil {
		log.Fatal("Failed to initialize MongoDB")
	}
	defer config.MongoDB.Client().Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := services.NewUserService(config.MongoDB, logging.Logger)
	created, err := users.EnsureUser(ctx, &models.UserInput{
		Username:         *username,
		Password:         *password,
		Role:             *role,
		PermittedModules: strings.Split(*modules, ","),
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	if !created {
		fmt.Printf("⚠️  User %q already exists, nothing to do\n", *username)
		return
	}
	fmt.Printf("✅ User %q created with role %q\n", *username, *role)
}
