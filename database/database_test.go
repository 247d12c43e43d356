package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"paymentservice/config"
	"paymentservice/models"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// newSQLiteConfig возвращает конфигурацию с отдельной базой sqlite в памяти для каждого теста
func newSQLiteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = "file:" + nonWord.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	return cfg
}

func connectSQLite(t *testing.T) *Database {
	t.Helper()

	db, err := Connect(newSQLiteConfig(t))
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectSQLite(t *testing.T) {
	db := connectSQLite(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	for _, table := range []string{"accounts", "operation_types", "transactions"} {
		if !db.DB.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestConnectUnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "mysql"

	if _, err := Connect(cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"payments.db", "payments.db?_pragma=foreign_keys(1)"},
		{"file:x?mode=memory", "file:x?mode=memory&_pragma=foreign_keys(1)"},
		{"x.db?_pragma=foreign_keys(0)", "x.db?_pragma=foreign_keys(0)"},
	}

	for _, tt := range tests {
		if got := sqliteDSN(tt.path); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestSeedOperationTypes(t *testing.T) {
	db := connectSQLite(t)

	// повторный запуск не должен дублировать записи
	for i := 0; i < 2; i++ {
		if err := SeedOperationTypes(db.DB); err != nil {
			t.Fatalf("seed #%d failed: %v", i+1, err)
		}
	}

	var got []models.OperationType
	if err := db.DB.Order("operation_type_id").Find(&got).Error; err != nil {
		t.Fatalf("failed to load operation types: %v", err)
	}

	want := []string{"Normal Purchase", "Purchase with installments", "Withdrawal", "Credit Voucher"}
	if len(got) != len(want) {
		t.Fatalf("expected %d operation types, got %d", len(want), len(got))
	}
	for i, ot := range got {
		if ot.ID != uint(i+1) {
			t.Errorf("expected id %d, got %d", i+1, ot.ID)
		}
		if ot.Description != want[i] {
			t.Errorf("expected description %q, got %q", want[i], ot.Description)
		}
	}
}

func TestSeedOperationTypesNonEmpty(t *testing.T) {
	db := connectSQLite(t)

	custom := models.OperationType{Description: "Refund"}
	if err := db.DB.Create(&custom).Error; err != nil {
		t.Fatalf("failed to insert operation type: %v", err)
	}

	if err := SeedOperationTypes(db.DB); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var count int64
	db.DB.Model(&models.OperationType{}).Count(&count)
	if count != 1 {
		t.Errorf("expected existing catalog to be left alone, got %d rows", count)
	}
}

func TestConnectPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "payments_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverPostgres
	cfg.DB.Host = host
	cfg.DB.Port = port.Int()
	cfg.DB.User = "postgres"
	cfg.DB.Password = "postgres"
	cfg.DB.Name = "payments_test"
	cfg.DB.SSLMode = "disable"
	cfg.DB.MigrationsPath = "file://../migrations"

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	if err := SeedOperationTypes(db.DB); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	account := models.Account{DocumentNumber: "12345678900"}
	if err := db.DB.Create(&account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	duplicate := models.Account{DocumentNumber: "12345678900"}
	if err := db.DB.Create(&duplicate).Error; err == nil {
		t.Error("expected unique violation for duplicate document number")
	}

	// повторное подключение не должно падать на уже примененных миграциях
	again, err := Connect(cfg)
	if err != nil {
		t.Fatalf("failed to reconnect: %v", err)
	}
	again.Close()
}
