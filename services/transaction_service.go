package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paymentservice/models"
	"paymentservice/utils"
)

// CreateTransactionRequest представляет данные для создания транзакции.
// Сумма передается положительной, знак определяется типом операции
type CreateTransactionRequest struct {
	AccountID       uint            `json:"account_id" validate:"required"`
	OperationTypeID uint            `json:"operation_type_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"money"`
}

// OperationTypeResponse представляет тип операции в ответах API
type OperationTypeResponse struct {
	ID          uint   `json:"operation_type_id"`
	Description string `json:"description"`
}

// TransactionResponse представляет сохраненную транзакцию вместе со счетом и типом операции
type TransactionResponse struct {
	ID              uint                  `json:"transaction_id"`
	AccountID       uint                  `json:"account_id"`
	OperationTypeID uint                  `json:"operation_type_id"`
	Amount          decimal.Decimal       `json:"amount"`
	EventDate       time.Time             `json:"event_date"`
	Account         AccountResponse       `json:"account"`
	OperationType   OperationTypeResponse `json:"operation_type"`
}

// MarshalJSON отдает сумму числом с двумя знаками после запятой
func (r TransactionResponse) MarshalJSON() ([]byte, error) {
	type plain TransactionResponse
	return json.Marshal(struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}{
		plain:  plain(r),
		Amount: json.RawMessage(r.Amount.StringFixed(2)),
	})
}

// TransactionService предоставляет методы для работы с транзакциями
type TransactionService struct {
	db        *gorm.DB
	validator *validator.Validate
	metrics   *utils.Metrics
	now       func() time.Time
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{
		db:        db,
		validator: newValidator(),
		metrics:   utils.GetMetrics(),
		now:       time.Now,
	}
}

// ApplySignPolicy возвращает сумму со знаком, соответствующим типу операции:
// покупки и снятия отрицательные, остальные операции положительные
func ApplySignPolicy(description string, amount decimal.Decimal) decimal.Decimal {
	desc := strings.ToLower(description)
	magnitude := amount.Abs()

	if strings.Contains(desc, "purchase") || strings.Contains(desc, "withdrawal") {
		return magnitude.Neg()
	}
	return magnitude
}

// CreateTransaction сохраняет транзакцию по счету. Баланс счета не изменяется
func (s *TransactionService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (resp *TransactionResponse, err error) {
	startTime := time.Now()
	defer func() { utils.LogOperation("CreateTransaction", startTime, err) }()

	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	var (
		account       models.Account
		operationType models.OperationType
		transaction   models.Transaction
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, req.AccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: счет %d не найден", ErrNotFound, req.AccountID)
			}
			return fmt.Errorf("ошибка при поиске счета: %w", err)
		}

		if err := tx.First(&operationType, req.OperationTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: тип операции %d не найден", ErrNotFound, req.OperationTypeID)
			}
			return fmt.Errorf("ошибка при поиске типа операции: %w", err)
		}

		transaction = models.Transaction{
			AccountID:       account.ID,
			OperationTypeID: operationType.ID,
			Amount:          ApplySignPolicy(operationType.Description, req.Amount),
			// postgres хранит время с точностью до микросекунд
			EventDate:       s.now().Truncate(time.Microsecond),
		}

		if err := tx.Omit(clause.Associations).Create(&transaction).Error; err != nil {
			return fmt.Errorf("ошибка при сохранении транзакции: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransactionCreated()
	utils.LogInfo("Transaction %d created for account %d: %s", transaction.ID, account.ID, transaction.Amount)

	return &TransactionResponse{
		ID:              transaction.ID,
		AccountID:       transaction.AccountID,
		OperationTypeID: transaction.OperationTypeID,
		Amount:          transaction.Amount,
		EventDate:       transaction.EventDate,
		Account:         *toAccountResponse(account),
		OperationType: OperationTypeResponse{
			ID:          operationType.ID,
			Description: operationType.Description,
		},
	}, nil
}
