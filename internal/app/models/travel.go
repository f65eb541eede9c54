package models

import "time"

// TravelOrder authorizes an employee's official travel
type TravelOrder struct {
	ID            int64             `json:"id"`
	EmployeeID    int64             `json:"employeeId"`
	Purpose       string            `json:"purpose"`
	Destination   string            `json:"destination"`
	DepartureDate time.Time         `json:"departureDate"`
	ReturnDate    time.Time         `json:"returnDate"`
	Status        WorkflowStatus    `json:"status"`
	ApprovedBy    *int64            `json:"approvedBy,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Itineraries   []TravelItinerary `json:"itineraries,omitempty"`
}

// TravelItinerary is one leg of an approved trip
type TravelItinerary struct {
	ID            int64     `json:"id"`
	TravelOrderID int64     `json:"travelOrderId"`
	TravelDate    time.Time `json:"travelDate"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Mode          string    `json:"mode"`
	Fare          float64   `json:"fare"`
}

// TravelClaim reimburses fares and per diem for a travel order
type TravelClaim struct {
	ID            int64          `json:"id"`
	TravelOrderID int64          `json:"travelOrderId"`
	EmployeeID    int64          `json:"employeeId"`
	FareTotal     float64        `json:"fareTotal"`
	PerDiemTotal  float64        `json:"perDiemTotal"`
	TotalAmount   float64        `json:"totalAmount"`
	Status        WorkflowStatus `json:"status"`
	ApprovedBy    *int64         `json:"approvedBy,omitempty"`
	SubmittedAt   time.Time      `json:"submittedAt"`
}
