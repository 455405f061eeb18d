package repository

import (
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/tharunramasamy/quickpickapp/database"
	"github.com/tharunramasamy/quickpickapp/models"
)

// openTestDB connects to the database named by the TEST_POSTGRES_* variables
// and migrates the schema. Suites are skipped when no test database is
// configured.
func openTestDB(t *testing.T) *gorm.DB {
	if err := godotenv.Load("../.env.test"); err != nil {
		log.Println("No .env.test file found, using environment")
	}
	if os.Getenv("TEST_POSTGRES_DB") == "" {
		t.Skip("TEST_POSTGRES_DB not set, skipping database suite")
	}

	db, err := database.Connect(database.PostgresConfig{
		Host:     testEnv("TEST_POSTGRES_HOST", "localhost"),
		Port:     testEnv("TEST_POSTGRES_PORT", "5432"),
		User:     testEnv("TEST_POSTGRES_USER", "postgres"),
		Password: testEnv("TEST_POSTGRES_PASSWORD", "postgres"),
		DBName:   os.Getenv("TEST_POSTGRES_DB"),
		SSLMode:  testEnv("TEST_POSTGRES_SSLMODE", "disable"),
		TimeZone: "UTC",
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func dropTestTables(db *gorm.DB) {
	db.Migrator().DropTable(
		&models.DeliveryTracking{},
		&models.OrderItem{},
		&models.Order{},
		&models.InventoryStock{},
		&models.Product{},
		&models.DeliveryPartner{},
		&models.InventoryLocation{},
		&models.City{},
		&models.User{},
	)
}

func testEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// uniquePhone keeps fixtures from colliding on the phone unique index.
func uniquePhone() string {
	return "p-" + uuid.NewString()[:12]
}
