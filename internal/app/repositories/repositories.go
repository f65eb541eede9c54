package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/scholaris/internal/db"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	ProgramRepository          *ProgramRepository
	LocationRepository         *LocationRepository
	HEIRepository              *HEIRepository
	ScholarRepository          *ScholarRepository
	AcademicRecordRepository   *AcademicRecordRepository
	DisbursementRepository     *DisbursementRepository
	RequirementRepository      *RequirementRepository
	ReportRepository           *ReportRepository
	BudgetRepository           *BudgetRepository
	FinancialRequestRepository *FinancialRequestRepository
	TravelRepository           *TravelRepository
	LeaveRepository            *LeaveRepository
	LocatorSlipRepository      *LocatorSlipRepository
	TripTicketRepository       *TripTicketRepository
	UserRepository             *UserRepository
	TokenRepository            *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		ProgramRepository:          NewProgramRepository(database),
		LocationRepository:         NewLocationRepository(database),
		HEIRepository:              NewHEIRepository(database),
		ScholarRepository:          NewScholarRepository(database),
		AcademicRecordRepository:   NewAcademicRecordRepository(database),
		DisbursementRepository:     NewDisbursementRepository(database),
		RequirementRepository:      NewRequirementRepository(database),
		ReportRepository:           NewReportRepository(database),
		BudgetRepository:           NewBudgetRepository(database),
		FinancialRequestRepository: NewFinancialRequestRepository(database),
		TravelRepository:           NewTravelRepository(database),
		LeaveRepository:            NewLeaveRepository(database),
		LocatorSlipRepository:      NewLocatorSlipRepository(database),
		TripTicketRepository:       NewTripTicketRepository(database),
		UserRepository:             NewUserRepository(database),
		TokenRepository:            NewTokenRepository(database),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// sortColumn maps an API sort field onto a column, falling back to def.
func sortColumn(allowed map[string]string, field, def string) string {
	if col, ok := allowed[field]; ok {
		return col
	}
	return def
}

func sortOrder(order string) string {
	if order == "DESC" || order == "desc" {
		return "DESC"
	}
	return "ASC"
}
