package models

import "time"

// TripTicket authorizes use of an office vehicle
type TripTicket struct {
	ID            int64          `json:"id"`
	EmployeeID    int64          `json:"employeeId"`
	TravelOrderID *int64         `json:"travelOrderId,omitempty"`
	DriverName    string         `json:"driverName"`
	VehiclePlate  string         `json:"vehiclePlate"`
	Destination   string         `json:"destination"`
	Purpose       string         `json:"purpose"`
	TripDate      time.Time      `json:"tripDate"`
	OdometerStart int            `json:"odometerStart"`
	OdometerEnd   *int           `json:"odometerEnd,omitempty"`
	FuelLiters    float64        `json:"fuelLiters"`
	Status        WorkflowStatus `json:"status"`
	ApprovedBy    *int64         `json:"approvedBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Distance is the kilometres travelled, 0 until the end reading is recorded
func (t *TripTicket) Distance() int {
	if t.OdometerEnd == nil {
		return 0
	}
	return *t.OdometerEnd - t.OdometerStart
}
