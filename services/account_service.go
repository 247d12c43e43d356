package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"paymentservice/models"
	"paymentservice/utils"
)

// CreateAccountRequest представляет данные для создания счета
type CreateAccountRequest struct {
	DocumentNumber string `json:"document_number" validate:"required,document_number"`
}

// AccountResponse представляет счет в ответах API
type AccountResponse struct {
	ID             uint   `json:"account_id"`
	DocumentNumber string `json:"document_number"`
}

// AccountService предоставляет методы для работы со счетами
type AccountService struct {
	db        *gorm.DB
	validator *validator.Validate
	metrics   *utils.Metrics
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{
		db:        db,
		validator: newValidator(),
		metrics:   utils.GetMetrics(),
	}
}

// CreateAccount создает счет. Номер документа должен быть уникальным
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (resp *AccountResponse, err error) {
	startTime := time.Now()
	defer func() { utils.LogOperation("CreateAccount", startTime, err) }()

	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	account := models.Account{DocumentNumber: req.DocumentNumber}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).
			Where("document_number = ?", req.DocumentNumber).
			Count(&count).Error; err != nil {
			return fmt.Errorf("ошибка при поиске счета: %w", err)
		}
		if count > 0 {
			return duplicateAccountError(req.DocumentNumber)
		}

		// Уникальный индекс защищает от параллельного создания
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateAccountError(req.DocumentNumber)
			}
			return fmt.Errorf("не удалось создать счет: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAccountCreated()
	utils.LogInfo("Account %d created", account.ID)

	return toAccountResponse(account), nil
}

// GetAccount возвращает счет по ID
func (s *AccountService) GetAccount(ctx context.Context, id uint) (*AccountResponse, error) {
	var account models.Account

	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: счет %d не найден", ErrNotFound, id)
		}
		return nil, fmt.Errorf("ошибка при поиске счета: %w", err)
	}

	return toAccountResponse(account), nil
}

func duplicateAccountError(documentNumber string) error {
	return fmt.Errorf("%w: счет с номером документа %s уже существует", ErrConflict, documentNumber)
}

func toAccountResponse(account models.Account) *AccountResponse {
	return &AccountResponse{
		ID:             account.ID,
		DocumentNumber: account.DocumentNumber,
	}
}
