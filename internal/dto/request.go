package dto

type CreateSplitRequest struct {
	ActivityAvailabilityID int64  `json:"activity_availability_id"`
	SplitName              string `json:"split_name"`
}

type RenameSplitRequest struct {
	SplitName string `json:"split_name"`
}

type AssignGuideRequest struct {
	GuideID *int64 `json:"guide_id"`
}

type AssignBookingsRequest struct {
	SplitID            int64   `json:"split_id"`
	ActivityBookingIDs []int64 `json:"activity_booking_ids"`
}

type AssignVouchersRequest struct {
	SplitID    int64   `json:"split_id"`
	VoucherIDs []int64 `json:"voucher_ids"`
}

type RemoveBookingsRequest struct {
	ActivityAvailabilityID int64   `json:"activity_availability_id"`
	ActivityBookingIDs     []int64 `json:"activity_booking_ids"`
}

type RemoveVouchersRequest struct {
	ActivityAvailabilityID int64   `json:"activity_availability_id"`
	VoucherIDs             []int64 `json:"voucher_ids"`
}

type TemplateRequest struct {
	Name                string `json:"name"`
	Subject             string `json:"subject"`
	Body                string `json:"body"`
	ServiceItemTemplate string `json:"service_item_template"`
	TemplateType        string `json:"template_type"`
	IsDefault           bool   `json:"is_default"`
}

type ActivityTemplateRequest struct {
	ActivityID int64 `json:"activity_id"`
	TemplateID int64 `json:"template_id"`
}

type DispatchRequest struct {
	Date         string  `json:"date"`
	ActivityIDs  []int64 `json:"activity_ids,omitempty"`
	RecipientIDs []int64 `json:"recipient_ids,omitempty"`
}
