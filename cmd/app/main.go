package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"fooddelivery/cmd"
	"fooddelivery/internal/adapters/out/catalog"
	"fooddelivery/internal/adapters/out/postgres/agentrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/restaurantrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	seedCatalog(app.Catalog(), logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		CardGatewayURL:      goDotEnvVariable("CARD_GATEWAY_URL"),
		CardGatewaySecret:   goDotEnvVariable("CARD_GATEWAY_SECRET"),
		WalletGatewayURL:    goDotEnvVariable("WALLET_GATEWAY_URL"),
		WalletGatewaySecret: goDotEnvVariable("WALLET_GATEWAY_SECRET"),
		DispatchCronSpec:    goDotEnvVariable("DISPATCH_CRON_SPEC"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	return gormDB
}

func mustMigrateDB(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderHistoryDTO{},
		&agentrepo.AgentDTO{},
		&restaurantrepo.RestaurantDTO{},
	)
	if err != nil {
		log.Fatalf("migrate database: %v", err)
	}
}

type menuSeedItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type menuSeedRestaurant struct {
	RestaurantID string         `json:"restaurant_id"`
	Items        []menuSeedItem `json:"items"`
}

// seedCatalog loads the static menu catalog from MENU_SEED_FILE when set.
// Without a seed file the catalog stays empty and order placement rejects
// every item until menus are provisioned.
func seedCatalog(cat *catalog.StaticCatalog, logger *slog.Logger) {
	path := os.Getenv("MENU_SEED_FILE")
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read menu seed file: %v", err)
	}

	var restaurants []menuSeedRestaurant
	if err = json.Unmarshal(data, &restaurants); err != nil {
		log.Fatalf("parse menu seed file: %v", err)
	}

	for _, r := range restaurants {
		restaurantID, idErr := kernel.UUIDFromString(r.RestaurantID)
		if idErr != nil {
			log.Fatalf("menu seed file: %v", idErr)
		}
		for _, item := range r.Items {
			itemID, itemErr := kernel.UUIDFromString(item.ID)
			if itemErr != nil {
				log.Fatalf("menu seed file: %v", itemErr)
			}
			cat.Put(restaurantID, ports.MenuItem{ID: itemID, Name: item.Name, Price: item.Price})
		}
	}

	logger.Info("menu catalog seeded", "restaurants", len(restaurants))
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
