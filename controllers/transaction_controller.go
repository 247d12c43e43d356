package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"paymentservice/services"
)

// TransactionServicer описывает операции с транзакциями, необходимые контроллеру
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (*services.TransactionResponse, error)
}

// TransactionController обрабатывает запросы, связанные с транзакциями
type TransactionController struct {
	transactionService TransactionServicer
}

// NewTransactionController создает новый экземпляр TransactionController
func NewTransactionController(transactionService TransactionServicer) *TransactionController {
	return &TransactionController{transactionService: transactionService}
}

// CreateTransaction обрабатывает запрос на создание транзакции.
// Отсутствующий счет или тип операции считаются ошибкой запроса
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	transaction, err := tc.transactionService.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}
