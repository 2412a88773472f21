package models

// ServiceGroup merges several availabilities into one consolidated
// guide email even across different tours and times.
type ServiceGroup struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	GroupName   string `gorm:"not null" json:"group_name"`
	ServiceDate string `gorm:"type:varchar(10);not null;index" json:"service_date"`

	Members []ServiceGroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

type ServiceGroupMember struct {
	ID                     int64 `gorm:"primaryKey" json:"id"`
	GroupID                int64 `gorm:"not null;index" json:"group_id"`
	ActivityAvailabilityID int64 `gorm:"not null;uniqueIndex" json:"activity_availability_id"`
}
