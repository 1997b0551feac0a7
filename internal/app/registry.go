package app

import (
	"database/sql"
	"os"

	"go-bizops/internal/auth"
	"go-bizops/internal/chat"
	"go-bizops/internal/chat/gemini"
	"go-bizops/internal/company"
	"go-bizops/internal/messaging/kafka"
	"go-bizops/internal/middleware"
	"go-bizops/internal/payroll"
	"go-bizops/internal/tax"
	"go-bizops/internal/transaction"
	"go-bizops/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	chatRepo := chat.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	taxRepo := tax.NewRepository(gormDB)
	transactionRepo := transaction.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- External clients ---
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}
	geminiClient := gemini.NewClient(os.Getenv("GEMINI_API_KEY"), model)

	// --- Services ---
	authService := auth.NewService(db, authRepo)
	chatService := chat.NewService(chatRepo, geminiClient)
	companyService := company.NewService(companyRepo, rdb)
	payrollService := payroll.NewService(db, payrollRepo, outboxRepo)
	taxService := tax.NewService(db, taxRepo)
	transactionService := transaction.NewService(db, transactionRepo)
	userService := user.NewService(userRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	chatHandler := chat.NewHandler(chatService)
	companyHandler := company.NewHandler(companyService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)
	taxHandler := tax.NewHandler(taxService, rdb)
	transactionHandler := transaction.NewHandler(transactionService)
	userHandler := user.NewHandler(userService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		chat.RegisterRoutes(api, chatHandler)
		company.RegisterRoutes(api, companyHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		tax.RegisterRoutes(api, taxHandler, rdb)
		transaction.RegisterRoutes(api, transactionHandler)
		user.RegisterRoutes(api, userHandler)
	}

	return nil
}
