package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"paymentservice/models"
)

func countAccounts(t *testing.T, db *gorm.DB, documentNumber string) int64 {
	t.Helper()

	var count int64
	query := db.Model(&models.Account{})
	if documentNumber != "" {
		query = query.Where("document_number = ?", documentNumber)
	}
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("failed to count accounts: %v", err)
	}
	return count
}

func TestCreateAccount(t *testing.T) {
	service := NewAccountService(newTestDB(t))
	ctx := context.Background()

	resp, err := service.CreateAccount(ctx, CreateAccountRequest{DocumentNumber: "12345678900"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID != 1 {
		t.Errorf("expected account id 1, got %d", resp.ID)
	}
	if resp.DocumentNumber != "12345678900" {
		t.Errorf("expected document number 12345678900, got %s", resp.DocumentNumber)
	}

	second, err := service.CreateAccount(ctx, CreateAccountRequest{DocumentNumber: "98765432100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID == resp.ID {
		t.Errorf("expected distinct account ids, both are %d", resp.ID)
	}
}

func TestCreateAccountDuplicate(t *testing.T) {
	db := newTestDB(t)
	service := NewAccountService(db)
	ctx := context.Background()

	if _, err := service.CreateAccount(ctx, CreateAccountRequest{DocumentNumber: "12345678900"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.CreateAccount(ctx, CreateAccountRequest{DocumentNumber: "12345678900"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if count := countAccounts(t, db, "12345678900"); count != 1 {
		t.Errorf("expected exactly one account, got %d", count)
	}
}

func TestCreateAccountConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	service := NewAccountService(db)

	const workers = 8
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CreateAccount(context.Background(), CreateAccountRequest{DocumentNumber: "12345678900"})
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if created != 1 || conflicts != workers-1 {
		t.Errorf("expected 1 success and %d conflicts, got %d and %d", workers-1, created, conflicts)
	}
	if count := countAccounts(t, db, "12345678900"); count != 1 {
		t.Errorf("expected exactly one account, got %d", count)
	}
}

// Уникальный индекс должен возвращать ошибку, которую сервис распознает как конфликт
func TestAccountUniqueIndexTranslatesError(t *testing.T) {
	db := newTestDB(t)

	if err := db.Create(&models.Account{DocumentNumber: "12345678900"}).Error; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := db.Create(&models.Account{DocumentNumber: "12345678900"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
	if !errors.Is(duplicateAccountError("12345678900"), ErrConflict) {
		t.Error("expected duplicate error to wrap ErrConflict")
	}
}

func TestCreateAccountInvalidDocumentNumber(t *testing.T) {
	db := newTestDB(t)
	service := NewAccountService(db)

	tests := []struct {
		name           string
		documentNumber string
	}{
		{"empty", ""},
		{"too short", "1234567890"},
		{"too long", "123456789012"},
		{"letters", "1234567890a"},
		{"signed", "+1234567890"},
		{"spaces", "12345 67890"},
		{"non ascii digits", "١٢٣٤٥٦٧٨٩٠١"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateAccount(context.Background(), CreateAccountRequest{DocumentNumber: tt.documentNumber})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if count := countAccounts(t, db, ""); count != 0 {
				t.Errorf("expected no accounts to be stored, got %d", count)
			}
		})
	}
}

func TestGetAccount(t *testing.T) {
	service := NewAccountService(newTestDB(t))
	ctx := context.Background()

	created, err := service.CreateAccount(ctx, CreateAccountRequest{DocumentNumber: "12345678900"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := service.GetAccount(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	if _, err := service.GetAccount(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
