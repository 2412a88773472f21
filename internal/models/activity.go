package models

import "time"

type Activity struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActivityAvailability is the external identity joining one
// (activity, date, time) combination. Bookings, staff assignments,
// vouchers, attachments and splits all hang off its ID.
type ActivityAvailability struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	ActivityID  int64  `gorm:"not null;index:idx_availability_activity_date" json:"activity_id"`
	LocalDate   string `gorm:"type:varchar(10);not null;index:idx_availability_activity_date" json:"local_date"`
	LocalTime   string `gorm:"type:varchar(8);not null" json:"local_time"`
	VacancySold int    `gorm:"not null;default:0" json:"vacancy_sold"`

	Activity *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

func (ActivityAvailability) TableName() string {
	return "activity_availability"
}

type MeetingPoint struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type ActivityMeetingPoint struct {
	ID             int64 `gorm:"primaryKey" json:"id"`
	ActivityID     int64 `gorm:"not null;uniqueIndex" json:"activity_id"`
	MeetingPointID int64 `gorm:"not null" json:"meeting_point_id"`

	MeetingPoint *MeetingPoint `gorm:"foreignKey:MeetingPointID" json:"meeting_point,omitempty"`
}
