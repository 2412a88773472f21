package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/tourops/daily-list-service/config"
	"github.com/tourops/daily-list-service/internal/consumer"
	"github.com/tourops/daily-list-service/internal/handler"
	"github.com/tourops/daily-list-service/internal/middleware"
	"github.com/tourops/daily-list-service/internal/repository"
	"github.com/tourops/daily-list-service/internal/service"
	"github.com/tourops/daily-list-service/pkg/database"
	"github.com/tourops/daily-list-service/pkg/mailer"
	"github.com/tourops/daily-list-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ consumer: sync booking webhooks from the booking platform
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	bookingConsumer := consumer.NewBookingConsumer(db)
	bookingConsumer.Start(msgs)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to create RabbitMQ publisher: %v", err)
	}
	defer publisher.Close()

	var sender mailer.Sender
	if cfg.ResendAPIKey != "" {
		sender = mailer.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Println("[Mailer] RESEND_API_KEY not set, using noop sender")
		sender = mailer.NewNoopSender()
	}

	// Repositories
	activityRepo := repository.NewActivityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	splitRepo := repository.NewSplitRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	serviceGroupRepo := repository.NewServiceGroupRepository(db)

	// Services
	normalizer := service.NewNormalizer(service.DefaultCategoryPolicy())
	loader := service.NewDataLoader(activityRepo, bookingRepo, staffRepo, voucherRepo,
		attachmentRepo, splitRepo, serviceGroupRepo, normalizer)
	exportSvc := service.NewExportService(bookingRepo, service.DefaultCategoryPolicy())
	splitSvc := service.NewSplitService(splitRepo, bookingRepo, voucherRepo, activityRepo, staffRepo, normalizer)
	dailyListSvc := service.NewDailyListService(loader, activityRepo, exportSvc, splitSvc)
	emailSvc := service.NewEmailService(sender, emailLogRepo)
	dispatchSvc := service.NewDispatchService(loader, templateRepo, emailLogRepo, exportSvc,
		sender, publisher, cfg.AttachmentDir, cfg.MaxAttachmentsPerSend)
	templateSvc := service.NewTemplateService(templateRepo)
	attachmentSvc := service.NewAttachmentService(attachmentRepo, activityRepo, cfg.AttachmentDir)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "daily-list-service"})
	})

	handler.NewDailyListHandler(dailyListSvc, activityRepo, staffRepo, serviceGroupRepo).RegisterRoutes(e)
	handler.NewSplitHandler(splitSvc).RegisterRoutes(e)
	handler.NewTemplateHandler(templateSvc).RegisterRoutes(e)
	handler.NewEmailHandler(emailSvc, dispatchSvc).RegisterRoutes(e)
	handler.NewAttachmentHandler(attachmentSvc, attachmentRepo).RegisterRoutes(e)

	log.Printf("Daily List Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
