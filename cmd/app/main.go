package main

import (
	"fmt"
	"log/slog"
	"os"

	"roadside/cmd"
	httpserver "roadside/internal/adapters/in/http"
	"roadside/internal/adapters/out/postgres/jobrepo"
	"roadside/internal/adapters/out/postgres/providerrepo"
	"roadside/internal/adapters/out/push"
	"roadside/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDatabase(configs)

	notifier, err := push.NewFCMGateway(configs.FCMEndpoint, configs.FCMServerKey, nil)
	if err != nil {
		log.Fatalf("Failed to create push gateway: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, notifier, logger)

	jobManager := jobs.NewJobManager(
		app.CreateJobUoWFactory(),
		app.CreateBroadcastJobCommandHandler(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:     goDotEnvVariable("HTTP_PORT"),
		DBHost:       goDotEnvVariable("DB_HOST"),
		DBPort:       goDotEnvVariable("DB_PORT"),
		DBUser:       goDotEnvVariable("DB_USER"),
		DBPassword:   goDotEnvVariable("DB_PASSWORD"),
		DBName:       goDotEnvVariable("DB_NAME"),
		DBSslMode:    goDotEnvVariable("DB_SSLMODE"),
		FCMEndpoint:  goDotEnvVariable("FCM_ENDPOINT"),
		FCMServerKey: goDotEnvVariable("FCM_SERVER_KEY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(&jobrepo.JobDTO{}, &providerrepo.ProviderDTO{}); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpserver.NewServer(
		app.CreateCreateJobCommandHandler(),
		app.CreateConfirmBookingFeeCommandHandler(),
		app.CreateBroadcastJobCommandHandler(),
		app.CreateAcceptJobOfferCommandHandler(),
		app.CreateDeclineJobOfferCommandHandler(),
		app.CreateRegisterProviderCommandHandler(),
		app.CreateGetActiveJobsQueryHandler(),
		app.CreateGetOnlineProvidersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
