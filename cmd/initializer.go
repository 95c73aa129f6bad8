package main

import (
	"database/sql"
	"log"
	"net/http"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"stayBack/internal/config"
	"stayBack/internal/handlers"
	"stayBack/internal/repositories"
	"stayBack/internal/services"
	"stayBack/utils"
)

type application struct {
	errorLog       *log.Logger
	infoLog        *log.Logger
	db             *sql.DB
	wsManager      *WebSocketManager
	paymentHandler *handlers.PaymentHandler
	paymentRepo    *repositories.PaymentRepository
	auditRepo      *repositories.AuditLogRepository
	userRepo       *repositories.UserRepository
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcm *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	paymentRepo := repositories.PaymentRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	invoiceRepo := repositories.InvoiceRepository{DB: db}
	refundRepo := repositories.RefundRepository{DB: db}
	auditRepo := repositories.AuditLogRepository{DB: db}
	propertyRepo := repositories.PropertyRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}
	pendingCache := repositories.NewPendingCache(rdb)

	// WebSocket push
	wsManager := NewWebSocketManager()

	// Services
	upiService := services.NewUPIService()
	auditService := &services.AuditService{AuditRepo: &auditRepo}
	invoiceService := &services.InvoiceService{
		InvoiceRepo: &invoiceRepo,
		Upload:      utils.UploadFileToS3,
	}
	if cfg.Payments.RenderEndpoint != "" {
		invoiceService.Renderer = &services.HTTPDocumentRenderer{
			Endpoint: cfg.Payments.RenderEndpoint,
			Client:   &http.Client{},
		}
	}
	notificationService := &services.NotificationService{
		FCM:    fcm,
		Tokens: &userRepo,
		Pusher: wsManager,
	}
	paymentService := &services.PaymentService{
		PaymentRepo:  &paymentRepo,
		BookingRepo:  &bookingRepo,
		PropertyRepo: &propertyRepo,
		UserRepo:     &userRepo,
		RefundRepo:   &refundRepo,
		Audit:        auditService,
		Invoices:     invoiceService,
		Upi:          upiService,
		Cache:        pendingCache,
		Notifier:     notificationService,
	}

	// Handlers
	paymentHandler := &handlers.PaymentHandler{
		Service:        paymentService,
		WebhookKeyHash: cfg.Payments.WebhookKeyHash,
	}

	return &application{
		errorLog:       errorLog,
		infoLog:        infoLog,
		db:             db,
		wsManager:      wsManager,
		paymentHandler: paymentHandler,
		paymentRepo:    &paymentRepo,
		auditRepo:      &auditRepo,
		userRepo:       &userRepo,
	}
}
