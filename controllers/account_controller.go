package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"paymentservice/services"
)

// AccountServicer описывает операции со счетами, необходимые контроллеру
type AccountServicer interface {
	CreateAccount(ctx context.Context, req services.CreateAccountRequest) (*services.AccountResponse, error)
	GetAccount(ctx context.Context, id uint) (*services.AccountResponse, error)
}

// AccountController обрабатывает запросы, связанные со счетами
type AccountController struct {
	accountService AccountServicer
}

// NewAccountController создает новый экземпляр AccountController
func NewAccountController(accountService AccountServicer) *AccountController {
	return &AccountController{accountService: accountService}
}

// CreateAccount обрабатывает запрос на создание счета
func (ac *AccountController) CreateAccount(c *gin.Context) {
	var req services.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	account, err := ac.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// GetAccount обрабатывает запрос на получение счета по ID
func (ac *AccountController) GetAccount(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("accountId"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID счета")
		return
	}

	account, err := ac.accountService.GetAccount(c.Request.Context(), uint(id))
	if err != nil {
		handleServiceError(c, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, account)
}
