package dto

// GridRow is one flattened scholar + academic record row of the bulk-edit grid.
// Rows are validated individually with the validate tags, including the
// custom academic_year, award_number and contact_number rules.
type GridRow struct {
	ScholarID        *int64 `json:"scholarId" validate:"omitempty,gt=0"`
	AcademicRecordID *int64 `json:"academicRecordId" validate:"omitempty,gt=0"`

	AwardNumber   string `json:"awardNumber" validate:"required,award_number"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	FirstName     string `json:"firstName" validate:"required,max=100"`
	MiddleName    string `json:"middleName" validate:"max=100"`
	NameExtension string `json:"nameExtension" validate:"max=16"`
	Sex           string `json:"sex" validate:"required,oneof=M F"`
	Birthdate     string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	ContactNumber string `json:"contactNumber" validate:"omitempty,contact_number"`
	Email         string `json:"email" validate:"omitempty,email"`
	ProvinceID    *int64 `json:"provinceId" validate:"omitempty,gt=0"`
	CityID        *int64 `json:"cityId" validate:"omitempty,gt=0"`
	DistrictID    *int64 `json:"districtId" validate:"omitempty,gt=0"`
	Barangay      string `json:"barangay" validate:"max=150"`
	Status        string `json:"status" validate:"omitempty,oneof=APPLICANT VERIFIED ACTIVE ON_LEAVE GRADUATED TERMINATED WAIVED"`

	HEIID          int64    `json:"heiId" validate:"required,gt=0"`
	Course         string   `json:"course" validate:"required,max=255"`
	YearLevel      int      `json:"yearLevel" validate:"required,min=1,max=7"`
	AcademicYear   string   `json:"academicYear" validate:"required,academic_year"`
	Semester       int      `json:"semester" validate:"required,min=1,max=3"`
	GWA            *float64 `json:"gwa" validate:"omitempty,gte=1,lte=5"`
	UnitsEnrolled  int      `json:"unitsEnrolled" validate:"gte=0"`
	GrantAmount    float64  `json:"grantAmount" validate:"gte=0"`
	AcademicStatus string   `json:"academicStatus" validate:"omitempty,oneof=ENROLLED COMPLETED DROPPED FAILED"`
}

// BulkUpdateRequest carries the full row set of the grid
type BulkUpdateRequest struct {
	Rows []GridRow `json:"rows" binding:"required,min=1"`
}

// BulkUpdateResult counts what a grid sync changed
type BulkUpdateResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// RowError reports the failures of one grid or import row (1-based)
type RowError struct {
	Row         int          `json:"row"`
	AwardNumber string       `json:"awardNumber,omitempty"`
	Message     string       `json:"message"`
	Fields      []FieldError `json:"fields,omitempty"`
}

// ImportResult summarizes a spreadsheet import
type ImportResult struct {
	BatchID   string     `json:"batchId"`
	TotalRows int        `json:"totalRows"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Unchanged int        `json:"unchanged"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors"`
}
