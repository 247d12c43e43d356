package services

import (
	"regexp"
	"testing"

	"gorm.io/gorm"

	"paymentservice/config"
	"paymentservice/database"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// newTestDB поднимает отдельную базу sqlite в памяти с загруженным справочником типов операций
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = "file:services_" + nonWord.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.SeedOperationTypes(db.DB); err != nil {
		t.Fatalf("failed to seed operation types: %v", err)
	}

	return db.DB
}
