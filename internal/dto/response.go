package dto

import "github.com/tourops/daily-list-service/internal/service"

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// AssignmentListResponse mirrors the shape the staffing drawer
// consumes: one list per role, each entry carrying the availability it
// belongs to.
type AssignmentListResponse struct {
	Guides     []AssignmentEntry `json:"guides"`
	Escorts    []AssignmentEntry `json:"escorts"`
	Headphones []AssignmentEntry `json:"headphones"`
	Printing   []AssignmentEntry `json:"printing"`
}

type AssignmentEntry struct {
	ActivityAvailabilityID int64          `json:"activity_availability_id"`
	Person                 service.Person `json:"person"`
}

func ToAssignmentListResponse(staff map[int64]*service.StaffAssignment) AssignmentListResponse {
	var resp AssignmentListResponse
	for _, sa := range staff {
		for _, p := range sa.Guides {
			resp.Guides = append(resp.Guides, AssignmentEntry{sa.ActivityAvailabilityID, p})
		}
		for _, p := range sa.Escorts {
			resp.Escorts = append(resp.Escorts, AssignmentEntry{sa.ActivityAvailabilityID, p})
		}
		for _, p := range sa.Headphones {
			resp.Headphones = append(resp.Headphones, AssignmentEntry{sa.ActivityAvailabilityID, p})
		}
		for _, p := range sa.Printing {
			resp.Printing = append(resp.Printing, AssignmentEntry{sa.ActivityAvailabilityID, p})
		}
	}
	return resp
}
