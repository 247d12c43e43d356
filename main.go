package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"

	"paymentservice/config"
	"paymentservice/controllers"
	"paymentservice/database"
	"paymentservice/middleware"
	"paymentservice/services"
	"paymentservice/utils"
)

// pinger проверяет доступность хранилища для служебного сервера
type pinger interface {
	Ping(ctx context.Context) error
}

// setupRouter создает публичный роутер API
func setupRouter(accounts controllers.AccountServicer, transactions controllers.TransactionServicer, limiter *utils.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORSMiddleware(),
		middleware.RateLimit(limiter),
	)

	accountController := controllers.NewAccountController(accounts)
	transactionController := controllers.NewTransactionController(transactions)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Маршруты для работы со счетами
	router.POST("/accounts", accountController.CreateAccount)
	router.GET("/accounts/:accountId", accountController.GetAccount)

	// Маршруты для работы с транзакциями
	router.POST("/transactions", transactionController.CreateTransaction)

	return router
}

// setupAdminRouter создает служебный роутер с проверкой состояния и метриками
func setupAdminRouter(db pinger) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.LogError("Health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
	}).Methods(http.MethodGet)

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := utils.InitLogger(cfg.Log.Dir); err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Справочник типов операций загружается до начала обработки запросов
	if err := database.SeedOperationTypes(db.DB); err != nil {
		log.Fatalf("Ошибка загрузки типов операций: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)

	accountService := services.NewAccountService(db.DB)
	transactionService := services.NewTransactionService(db.DB)
	limiter := utils.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(accountService, transactionService, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}
	adminServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.AdminPort),
		Handler:           setupAdminRouter(db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 2)
	for _, srv := range []*http.Server{apiServer, adminServer} {
		go func(srv *http.Server) {
			utils.LogInfo("Сервер запущен на %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrors <- fmt.Errorf("сервер %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	select {
	case err := <-serverErrors:
		utils.LogError("Ошибка запуска сервера: %v", err)
	case <-ctx.Done():
		utils.LogInfo("Получен сигнал завершения")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, srv := range []*http.Server{apiServer, adminServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.LogError("Ошибка остановки сервера %s: %v", srv.Addr, err)
		}
	}
	utils.LogInfo("Сервер остановлен")
}
