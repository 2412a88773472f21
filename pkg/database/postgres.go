package database

import (
	"log"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Activity{},
		&models.ActivityAvailability{},
		&models.ActivityBooking{},
		&models.PricingCategoryBooking{},
		&models.Customer{},
		&models.BookingCustomer{},
		&models.Guide{},
		&models.AvailabilityAssignment{},
		&models.Voucher{},
		&models.TicketCategory{},
		&models.ServiceAttachment{},
		&models.TimeSlotSplit{},
		&models.SplitBooking{},
		&models.SplitVoucher{},
		&models.EmailTemplate{},
		&models.ActivityGuideTemplate{},
		&models.EmailLog{},
		&models.ServiceGroup{},
		&models.ServiceGroupMember{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one default template per type
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_template_default
		ON email_templates (template_type)
		WHERE is_default AND template_type <> ''
	`)

	return db
}
