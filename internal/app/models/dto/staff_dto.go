package dto

// TravelOrderRequest files a travel order with its itinerary
type TravelOrderRequest struct {
	Purpose       string             `json:"purpose" binding:"required"`
	Destination   string             `json:"destination" binding:"required,max=255"`
	DepartureDate string             `json:"departureDate" binding:"required,datetime=2006-01-02"`
	ReturnDate    string             `json:"returnDate" binding:"required,datetime=2006-01-02"`
	Itineraries   []ItineraryRequest `json:"itineraries" binding:"dive"`
}

// ItineraryRequest is one leg of a travel order
type ItineraryRequest struct {
	TravelDate  string  `json:"travelDate" binding:"required,datetime=2006-01-02"`
	Origin      string  `json:"origin" binding:"required,max=255"`
	Destination string  `json:"destination" binding:"required,max=255"`
	Mode        string  `json:"mode" binding:"required,max=64"`
	Fare        float64 `json:"fare" binding:"gte=0"`
}

// LeaveRequest files a leave application
type LeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required,oneof=VACATION SICK SPECIAL MATERNITY PATERNITY FORCED"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

// LocatorSlipRequest files a locator slip. Times are RFC 3339.
type LocatorSlipRequest struct {
	Destination string `json:"destination" binding:"required,max=255"`
	Purpose     string `json:"purpose" binding:"required"`
	SlipDate    string `json:"slipDate" binding:"required,datetime=2006-01-02"`
	TimeOut     string `json:"timeOut" binding:"required,datetime=2006-01-02T15:04:05Z07:00"`
	TimeIn      string `json:"timeIn" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsOfficial  *bool  `json:"isOfficial"`
}

// LocatorReturnRequest records when the employee came back
type LocatorReturnRequest struct {
	TimeIn string `json:"timeIn" binding:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// TripTicketRequest files a vehicle trip ticket
type TripTicketRequest struct {
	TravelOrderID *int64  `json:"travelOrderId" binding:"omitempty,gt=0"`
	DriverName    string  `json:"driverName" binding:"required,max=150"`
	VehiclePlate  string  `json:"vehiclePlate" binding:"required,max=16"`
	Destination   string  `json:"destination" binding:"required,max=255"`
	Purpose       string  `json:"purpose" binding:"required"`
	TripDate      string  `json:"tripDate" binding:"required,datetime=2006-01-02"`
	OdometerStart int     `json:"odometerStart" binding:"gte=0"`
	OdometerEnd   *int    `json:"odometerEnd" binding:"omitempty,gte=0"`
	FuelLiters    float64 `json:"fuelLiters" binding:"gte=0"`
}

// TripCompletionRequest closes a trip ticket with the final readings
type TripCompletionRequest struct {
	OdometerEnd int     `json:"odometerEnd" binding:"gte=0"`
	FuelLiters  float64 `json:"fuelLiters" binding:"gte=0"`
}
