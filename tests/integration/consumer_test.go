//go:build integration

package integration

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourops/daily-list-service/internal/consumer"
	"github.com/tourops/daily-list-service/internal/models"
)

func deliver(t *testing.T, msgs chan amqp.Delivery, event map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	msgs <- amqp.Delivery{Body: body}
}

// waitForBooking polls until the booking row reaches the expected
// status or the deadline passes. The consumer processes messages on its
// own goroutine, so the test has to wait for the commit.
func waitForBooking(t *testing.T, activityBookingID int64, status models.BookingStatus) models.ActivityBooking {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var booking models.ActivityBooking
		err := testDB.Where("activity_booking_id = ?", activityBookingID).First(&booking).Error
		if err == nil && booking.Status == status {
			return booking
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("booking %d never reached status %s", activityBookingID, status)
	return models.ActivityBooking{}
}

func TestBookingConsumer_UpsertAndCancel(t *testing.T) {
	cleanTables()

	msgs := make(chan amqp.Delivery, 4)
	consumer.NewBookingConsumer(testDB).Start(msgs)
	defer close(msgs)

	deliver(t, msgs, map[string]interface{}{
		"activity_booking_id": 201,
		"booking_id":          601,
		"activity_id":         1,
		"activity_title":      "Colosseum Tour",
		"booking_date":        "2026-09-01",
		"start_time":          "09:00:00",
		"status":              "confirmed",
		"passengers": []map[string]interface{}{
			{"booked_title": "Adulto", "quantity": 2},
			{"booked_title": "Bambino", "quantity": 1},
		},
		"customer": map[string]interface{}{
			"id": 9001, "first_name": "Maria", "last_name": "Rossi", "email": "maria@example.com",
		},
	})

	booking := waitForBooking(t, 201, models.BookingConfirmed)
	assert.Equal(t, int64(601), booking.BookingID)
	assert.Equal(t, "2026-09-01", booking.BookingDate)

	var lines []models.PricingCategoryBooking
	require.NoError(t, testDB.Where("activity_booking_id = ?", 201).Find(&lines).Error)
	assert.Len(t, lines, 2)

	var activity models.Activity
	require.NoError(t, testDB.First(&activity, 1).Error)
	assert.Equal(t, "Colosseum Tour", activity.Title)

	var link models.BookingCustomer
	require.NoError(t, testDB.Where("booking_id = ?", 601).First(&link).Error)
	assert.Equal(t, int64(9001), link.CustomerID)

	// A second event for the same platform id updates in place: the
	// passenger lines are replaced, not appended.
	deliver(t, msgs, map[string]interface{}{
		"activity_booking_id": 201,
		"booking_id":          601,
		"activity_id":         1,
		"activity_title":      "Colosseum Tour",
		"booking_date":        "2026-09-01",
		"start_time":          "09:00:00",
		"status":              "cancelled",
		"passengers": []map[string]interface{}{
			{"booked_title": "Adulto", "quantity": 2},
		},
	})

	waitForBooking(t, 201, models.BookingCancelled)

	var rowCount int64
	testDB.Model(&models.ActivityBooking{}).Where("activity_booking_id = ?", 201).Count(&rowCount)
	assert.Equal(t, int64(1), rowCount)

	require.NoError(t, testDB.Where("activity_booking_id = ?", 201).Find(&lines).Error)
	assert.Len(t, lines, 1)
}
