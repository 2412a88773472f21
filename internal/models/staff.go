package models

import "time"

type StaffRole string

const (
	RoleGuide     StaffRole = "guide"
	RoleEscort    StaffRole = "escort"
	RoleHeadphone StaffRole = "headphone"
	RolePrinting  StaffRole = "printing"
)

func (r StaffRole) Valid() bool {
	switch r {
	case RoleGuide, RoleEscort, RoleHeadphone, RolePrinting:
		return true
	}
	return false
}

// Guide is any assignable staff member, not only tour guides; the
// table name is historical.
type Guide struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityAssignment binds one staff member, in one role, to one
// activity availability.
type AvailabilityAssignment struct {
	ID                     int64     `gorm:"primaryKey" json:"id"`
	ActivityAvailabilityID int64     `gorm:"not null;index;uniqueIndex:idx_assignment_unique" json:"activity_availability_id"`
	GuideID                int64     `gorm:"not null;uniqueIndex:idx_assignment_unique" json:"guide_id"`
	Role                   StaffRole `gorm:"type:varchar(16);not null;uniqueIndex:idx_assignment_unique" json:"role"`
	CreatedAt              time.Time `json:"created_at"`

	Guide *Guide `gorm:"foreignKey:GuideID" json:"guide,omitempty"`
}
