package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"dispatch/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB := connectDB(configs)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	app.CreateEventReactor().Subscribe(app.Bus())

	publisher, err := app.CreateKafkaPublisher()
	if err != nil {
		log.Fatalf("Error connecting to Kafka: %v", err)
	}
	defer publisher.Close()
	app.Bus().SubscribeStatusChanged(publisher.PublishStatusChanged)
	app.Bus().SubscribeRiderAssigned(publisher.PublishRiderAssigned)
	app.Bus().SubscribeRequestExhausted(publisher.PublishRequestExhausted)
	app.Bus().SubscribeRiderLocationUpdated(publisher.PublishRiderLocationUpdated)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		KafkaHost:             goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderEventsTopic: goDotEnvVariable("KAFKA_ORDER_EVENTS_TOPIC"),

		AssignInitialRadiusKm: goDotEnvVariable("ASSIGN_INITIAL_RADIUS_KM"),
		AssignMaxRadiusKm:     goDotEnvVariable("ASSIGN_MAX_RADIUS_KM"),
		AssignGrowthFactor:    goDotEnvVariable("ASSIGN_GROWTH_FACTOR"),
		AssignMaxAttempts:     goDotEnvVariable("ASSIGN_MAX_ATTEMPTS"),
		AssignOfferTTLSeconds: goDotEnvVariable("ASSIGN_OFFER_TTL_SECONDS"),

		ArrivingThresholdKm: goDotEnvVariable("ARRIVING_THRESHOLD_KM"),

		EmailGatewayURL: goDotEnvVariable("EMAIL_GATEWAY_URL"),
		SMSGatewayURL:   goDotEnvVariable("SMS_GATEWAY_URL"),
		PushGatewayURL:  goDotEnvVariable("PUSH_GATEWAY_URL"),

		BroadcastMaxConcurrent: goDotEnvVariable("BROADCAST_MAX_CONCURRENT"),
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

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e)
	e.GET("/ws", app.CreateWSHandler().Subscribe)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
