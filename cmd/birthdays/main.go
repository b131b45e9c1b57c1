package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// Sends birthday greetings to the employees born today (or -days ahead).
func main() {
	os.Exit(run())
}

func run() int {
	daysAhead := flag.Int("days", 0, "greet birthdays this many days from today")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	logger := logging.Logger
	defer func() { _ = logger.Sync() }()

	mailer, err := services.NewSMTPMailer(config.AppConfig)
	if err != nil {
		logger.Fatal("cannot send birthday e-mails", zap.Error(err))
	}

	config.InitMongoDB()
	defer config.MongoDB.Client().Disconnect(context.Background())

	employees := services.NewEmployeeService(config.MongoDB, nil, nil, logger)
	birthdays := services.NewBirthdayService(employees, mailer, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := birthdays.SendGreetings(ctx, *daysAhead)
	if err != nil {
		logger.Error("birthday greetings failed", zap.Error(err))
		return 1
	}

	logger.Info("birthday greetings finished",
		zap.String("date", report.Date),
		zap.Int("found", report.Found),
		zap.Strings("sent", report.Sent),
		zap.Strings("no_email", report.NoEmail),
		zap.Strings("failures", report.Failures))
	return 0
}
