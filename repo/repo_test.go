package repo_test

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/theabhijithashok/ValueXChange/models"
	"github.com/theabhijithashok/ValueXChange/repo"
)

// testDB opens a fresh in-memory database per test.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A pooled second connection would see an empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.ListingArchive{},
		&models.Bid{},
		&models.Conversation{},
		&models.Message{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     "user",
		Status:   "active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func validListingFields() repo.ListingFields {
	return repo.ListingFields{
		Title:       "Mountain Bike",
		Description: "Well maintained 26 inch mountain bike.",
		Category:    "Vehicles",
		Price:       500,
		Images:      []string{"data:image/jpeg;base64,aGVsbG8="},
		Location:    "Kochi",
	}
}
