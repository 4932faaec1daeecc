package request

type InitializeSlotsRequest struct {
	ResidentCount int `json:"resident_count" validate:"required,min=1,max=500"`
	// Capped at 99 so two-digit visitor labels keep lexicographic order
	// equal to numeric order.
	VisitorCount int `json:"visitor_count" validate:"required,min=1,max=99"`
}

type CreateBookingRequest struct {
	VisitorName string `json:"visitor_name" validate:"required,min=2,max=100"`
	VehicleID   string `json:"vehicle_id" validate:"required,min=4,max=20"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
}

type ReserveSlotRequest struct {
	Holder    string `json:"holder" validate:"required,min=1,max=100"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type AssignSlotRequest struct {
	Occupant string `json:"occupant" validate:"required,min=1,max=100"`
}
