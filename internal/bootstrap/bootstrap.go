package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/scholaris/internal/app/controllers"
	appMigrations "github.com/yigit/scholaris/internal/app/migrations"
	appRepos "github.com/yigit/scholaris/internal/app/repositories"
	appRoutes "github.com/yigit/scholaris/internal/app/routes"
	appServices "github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/config"
	"github.com/yigit/scholaris/internal/db"
	appMiddleware "github.com/yigit/scholaris/internal/middleware"
	pkgAuth "github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/pkg/email"
	"github.com/yigit/scholaris/internal/pkg/filestorage"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
	"github.com/yigit/scholaris/internal/pkg/validation"
	"github.com/yigit/scholaris/internal/seed"
)

// DefaultConfigPath is used when no --config flag is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Services groups the application services shared by the HTTP API and the CLI
type Services struct {
	Program        *appServices.ProgramService
	Location       *appServices.LocationService
	HEI            *appServices.HEIService
	Scholar        *appServices.ScholarService
	AcademicRecord *appServices.AcademicRecordService
	Disbursement   *appServices.DisbursementService
	Grid           *appServices.GridService
	Import         *appServices.ImportService
	Report         *appServices.ReportService
	Export         *appServices.ExportService
	NOA            *appServices.NOAService
	Requirement    *appServices.RequirementService
	Budget         *appServices.BudgetService
	Financial      *appServices.FinancialRequestService
	Travel         *appServices.TravelService
	Leave          *appServices.LeaveService
	LocatorSlip    *appServices.LocatorSlipService
	TripTicket     *appServices.TripTicketService
	Auth           *appServices.AuthService
	User           *appServices.UserService
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database       *db.PostgresDB
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Services       *Services
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool without touching the schema.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// SetupDatabase connects, applies pending migrations and seeds reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr).Up(); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := SeedDefaults(context.Background(), cfg, database, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SeedDefaults inserts programs, the superadmin account and base provinces.
func SeedDefaults(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	admin := seed.AdminAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	return seed.CreateDefaultData(ctx, appRepos.NewRepositories(database), admin, lgr)
}

// BuildServices wires repositories into services. The file storage is needed
// by services that remove uploaded attachments.
func BuildServices(cfg *config.Config, database *db.PostgresDB, repos *appRepos.Repositories,
	storage filestorage.FileStorage, jwtService *pkgAuth.JWTService, lgr zerolog.Logger) *Services {

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
	}, lgr)

	s := &Services{}
	s.Program = appServices.NewProgramService(repos.ProgramRepository)
	s.Location = appServices.NewLocationService(repos.LocationRepository)
	s.HEI = appServices.NewHEIService(repos.HEIRepository)
	s.Scholar = appServices.NewScholarService(database, repos.ScholarRepository, repos.RequirementRepository, storage)
	s.AcademicRecord = appServices.NewAcademicRecordService(repos.ScholarRepository, repos.AcademicRecordRepository)
	s.Disbursement = appServices.NewDisbursementService(repos.ScholarRepository, repos.AcademicRecordRepository, repos.DisbursementRepository)
	s.Grid = appServices.NewGridService(database, repos.ScholarRepository, repos.AcademicRecordRepository)
	s.Import = appServices.NewImportService(database, repos.ScholarRepository, repos.AcademicRecordRepository,
		repos.HEIRepository, repos.LocationRepository, cfg.Import.MaxRows)
	s.Report = appServices.NewReportService(repos.ReportRepository)
	s.Export = appServices.NewExportService(repos.ScholarRepository, s.Report)
	s.NOA = appServices.NewNOAService(repos.ScholarRepository, repos.ProgramRepository, mailer)
	s.Requirement = appServices.NewRequirementService(repos.RequirementRepository, repos.ScholarRepository,
		repos.FinancialRequestRepository, repos.TravelRepository, repos.LeaveRepository, storage)
	s.Budget = appServices.NewBudgetService(database, repos.BudgetRepository)
	s.Financial = appServices.NewFinancialRequestService(database, repos.FinancialRequestRepository, s.Budget)
	s.Travel = appServices.NewTravelService(database, repos.TravelRepository, cfg.Travel.PerDiemRate)
	s.Leave = appServices.NewLeaveService(database, repos.LeaveRepository)
	s.LocatorSlip = appServices.NewLocatorSlipService(repos.LocatorSlipRepository)
	s.TripTicket = appServices.NewTripTicketService(repos.TripTicketRepository, repos.TravelRepository)
	s.Auth = appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, lgr)
	s.User = appServices.NewUserService(repos.UserRepository, repos.TokenRepository, s.Program)
	return s
}

// NewJWTService builds the token service from configuration.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database)

	var err error
	// Stored URLs must match the static /uploads route served by the HTTP server
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = NewJWTService(cfg)
	deps.Services = BuildServices(cfg, database, deps.Repos, deps.FileStorage, deps.JWTService, lgr)
	svc := deps.Services

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, svc.Program)

	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(svc.Auth, lgr),
		User:      appControllers.NewUserController(svc.User),
		Reference: appControllers.NewReferenceController(svc.Program, svc.Location, svc.HEI),
		Scholar:   appControllers.NewScholarController(svc.Scholar, svc.AcademicRecord, svc.Disbursement, svc.NOA),
		Masterlist: appControllers.NewMasterlistController(svc.Grid, svc.Import, svc.Export,
			cfg.Import.MaxFileSize, lgr),
		Report: appControllers.NewReportController(svc.Report, svc.Export, lgr),
		Requirement: appControllers.NewRequirementController(svc.Requirement, svc.Scholar,
			svc.Financial, svc.Travel, svc.Leave),
		Finance: appControllers.NewFinanceController(svc.Budget, svc.Financial),
		Staff:   appControllers.NewStaffController(svc.Travel, svc.Leave, svc.LocatorSlip, svc.TripTicket),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.EqualFold(cfg.Server.Mode, "production") {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterBinding()

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))
	// Spreadsheet uploads are streamed from disk past this threshold
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
