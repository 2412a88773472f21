package consumer

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bookingEvent is the webhook payload relayed from the booking
// platform.
type bookingEvent struct {
	ActivityBookingID int64  `json:"activity_booking_id"`
	BookingID         int64  `json:"booking_id"`
	ActivityID        int64  `json:"activity_id"`
	ActivityTitle     string `json:"activity_title"`
	BookingDate       string `json:"booking_date"`
	StartTime         string `json:"start_time"`
	Status            string `json:"status"`
	Passengers        []struct {
		PricingCategoryID string `json:"pricing_category_id"`
		BookedTitle       string `json:"booked_title"`
		FirstName         string `json:"first_name"`
		LastName          string `json:"last_name"`
		DateOfBirth       string `json:"date_of_birth"`
		Quantity          int    `json:"quantity"`
	} `json:"passengers"`
	Customer *struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
	} `json:"customer"`
}

type BookingConsumer struct {
	db *gorm.DB
}

func NewBookingConsumer(db *gorm.DB) *BookingConsumer {
	return &BookingConsumer{db: db}
}

// Start listens for webhook events and upserts bookings into the local
// daily-list DB.
func (bc *BookingConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			bc.handleMessage(msg)
		}
		log.Println("[BookingConsumer] channel closed, stopping consumer")
	}()
}

func (bc *BookingConsumer) handleMessage(msg amqp.Delivery) {
	var event bookingEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[BookingConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	err := bc.db.Transaction(func(tx *gorm.DB) error {
		if err := bc.upsertActivity(tx, event); err != nil {
			return err
		}
		if err := bc.upsertBooking(tx, event, msg.Body); err != nil {
			return err
		}
		return bc.upsertCustomer(tx, event)
	})
	if err != nil {
		log.Printf("[BookingConsumer] failed to upsert booking %d: %v", event.ActivityBookingID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[BookingConsumer] synced booking %d (%s %s %s)",
		event.ActivityBookingID, event.ActivityTitle, event.BookingDate, event.StartTime)
	msg.Ack(false)
}

func (bc *BookingConsumer) upsertActivity(tx *gorm.DB, event bookingEvent) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
	}).Create(&models.Activity{ID: event.ActivityID, Title: event.ActivityTitle}).Error
}

func (bc *BookingConsumer) upsertBooking(tx *gorm.DB, event bookingEvent, raw []byte) error {
	status := models.BookingStatus(event.Status)
	if status == "" {
		status = models.BookingConfirmed
	}

	booking := models.ActivityBooking{
		ActivityBookingID: event.ActivityBookingID,
		BookingID:         event.BookingID,
		ActivityID:        event.ActivityID,
		BookingDate:       event.BookingDate,
		StartTime:         event.StartTime,
		Status:            status,
		RawPayload:        datatypes.JSON(raw),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "activity_booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"booking_id", "activity_id", "booking_date", "start_time", "status", "raw_payload", "updated_at"}),
	}).Create(&booking).Error
	if err != nil {
		return err
	}

	// Passenger lines are replaced wholesale on every event; partial
	// diffs are not worth it at this volume.
	if err := tx.Where("activity_booking_id = ?", event.ActivityBookingID).
		Delete(&models.PricingCategoryBooking{}).Error; err != nil {
		return err
	}
	for _, p := range event.Passengers {
		line := models.PricingCategoryBooking{
			ActivityBookingID: event.ActivityBookingID,
			PricingCategoryID: p.PricingCategoryID,
			BookedTitle:       p.BookedTitle,
			FirstName:         p.FirstName,
			LastName:          p.LastName,
			DateOfBirth:       p.DateOfBirth,
			Quantity:          p.Quantity,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

func (bc *BookingConsumer) upsertCustomer(tx *gorm.DB, event bookingEvent) error {
	if event.Customer == nil || event.Customer.ID == 0 {
		return nil
	}
	customer := models.Customer{
		ID:        event.Customer.ID,
		FirstName: event.Customer.FirstName,
		LastName:  event.Customer.LastName,
		Phone:     event.Customer.Phone,
		Email:     event.Customer.Email,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "phone", "email"}),
	}).Create(&customer).Error
	if err != nil {
		return err
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer_id"}),
	}).Create(&models.BookingCustomer{
		BookingID:  event.BookingID,
		CustomerID: event.Customer.ID,
	}).Error
}
