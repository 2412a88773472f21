package models

import "time"

type TemplateType string

const (
	TemplateGuideConsolidated     TemplateType = "guide_consolidated"
	TemplateEscortConsolidated    TemplateType = "escort_consolidated"
	TemplateHeadphoneConsolidated TemplateType = "headphone_consolidated"
	TemplatePrintingConsolidated  TemplateType = "printing_consolidated"
	TemplateGuideServiceGroup     TemplateType = "guide_service_group"
)

// EmailTemplate covers both flat per-service templates (TemplateType
// empty) and consolidated templates carrying a per-service
// micro-template.
type EmailTemplate struct {
	ID                  int64        `gorm:"primaryKey" json:"id"`
	Name                string       `gorm:"not null" json:"name"`
	Subject             string       `gorm:"not null" json:"subject"`
	Body                string       `gorm:"not null" json:"body"`
	ServiceItemTemplate string       `json:"service_item_template"`
	TemplateType        TemplateType `gorm:"type:varchar(32);index" json:"template_type"`
	IsDefault           bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// ActivityGuideTemplate maps an activity to the flat template used for
// that activity's one-email-per-service guide sends.
type ActivityGuideTemplate struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	ActivityID int64 `gorm:"not null;uniqueIndex" json:"activity_id"`
	TemplateID int64 `gorm:"not null" json:"template_id"`

	Template *EmailTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}
