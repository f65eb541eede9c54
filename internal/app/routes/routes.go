package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/controllers"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/middleware"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Reference   *controllers.ReferenceController
	Scholar     *controllers.ScholarController
	Masterlist  *controllers.MasterlistController
	Report      *controllers.ReportController
	Requirement *controllers.RequirementController
	Finance     *controllers.FinanceController
	Staff       *controllers.StaffController
}

// Role sets used by the route groups. SUPERADMIN passes every RoleRequired check.
var (
	approvers       = []models.Role{models.RoleSupervisor, models.RoleAccountant, models.RoleRegionalDirector}
	reportViewers   = append([]models.Role{models.RoleAdmin}, approvers...)
	budgetManagers  = []models.Role{models.RoleAdmin, models.RoleAccountant}
	referenceEditor = []models.Role{models.RoleAdmin}
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh-token", c.Auth.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", c.Auth.Logout)
	authenticated.GET("/auth/me", c.Auth.Profile)

	users := authenticated.Group("/users")
	users.Use(authMiddleware.RoleRequired(models.RoleSuperAdmin))
	{
		users.GET("", c.User.ListUsers)
		users.POST("", c.User.CreateUser)
		users.GET("/:id", c.User.GetUser)
		users.PUT("/:id", c.User.UpdateUser)
	}

	// Reference data: readable by every account, edited by program staff
	editors := authMiddleware.RoleRequired(referenceEditor...)
	authenticated.GET("/programs", c.Reference.ListPrograms)

	provinces := authenticated.Group("/provinces")
	{
		provinces.GET("", c.Reference.ListProvinces)
		provinces.GET("/:id/cities", c.Reference.ListCities)
		provinces.GET("/:id/districts", c.Reference.ListDistricts)
		provinces.POST("", editors, c.Reference.CreateProvince)
		provinces.PUT("/:id", editors, c.Reference.UpdateProvince)
		provinces.DELETE("/:id", editors, c.Reference.DeleteProvince)
	}
	cities := authenticated.Group("/cities", editors)
	{
		cities.POST("", c.Reference.CreateCity)
		cities.PUT("/:id", c.Reference.UpdateCity)
		cities.DELETE("/:id", c.Reference.DeleteCity)
	}
	districts := authenticated.Group("/districts", editors)
	{
		districts.POST("", c.Reference.CreateDistrict)
		districts.PUT("/:id", c.Reference.UpdateDistrict)
		districts.DELETE("/:id", c.Reference.DeleteDistrict)
	}
	heis := authenticated.Group("/heis")
	{
		heis.GET("", c.Reference.ListHEIs)
		heis.GET("/:id", c.Reference.GetHEI)
		heis.POST("", editors, c.Reference.CreateHEI)
		heis.PUT("/:id", editors, c.Reference.UpdateHEI)
		heis.DELETE("/:id", editors, c.Reference.DeleteHEI)
	}

	reports := authenticated.Group("/reports", authMiddleware.RoleRequired(reportViewers...))
	{
		reports.GET("/dashboard", c.Report.Dashboard)
		reports.GET("/statistics/export", c.Report.ExportStatistics)
	}

	// --- Program-scoped routes ---
	program := authenticated.Group("/programs/:program")
	program.Use(authMiddleware.ProgramAccess())
	{
		program.GET("/reports/summary", authMiddleware.RoleRequired(reportViewers...), c.Report.ProgramSummary)

		scholars := program.Group("/scholars", authMiddleware.RoleRequired(models.RoleAdmin))
		{
			scholars.GET("", c.Scholar.ListScholars)
			scholars.POST("", c.Scholar.CreateScholar)
			scholars.POST("/bulk-update", c.Masterlist.BulkUpdate)
			scholars.POST("/import", c.Masterlist.Import)
			scholars.GET("/import-template", c.Masterlist.ImportTemplate)
			scholars.GET("/export", c.Masterlist.ExportMasterlist)

			scholars.GET("/:id", c.Scholar.GetScholar)
			scholars.PUT("/:id", c.Scholar.UpdateScholar)
			scholars.PATCH("/:id/status", c.Scholar.ChangeStatus)
			scholars.DELETE("/:id", c.Scholar.DeleteScholar)

			scholars.GET("/:id/academic-records", c.Scholar.ListRecords)
			scholars.POST("/:id/academic-records", c.Scholar.CreateRecord)
			scholars.PUT("/:id/academic-records/:recordId", c.Scholar.UpdateRecord)
			scholars.DELETE("/:id/academic-records/:recordId", c.Scholar.DeleteRecord)

			scholars.GET("/:id/disbursements", c.Scholar.ListDisbursements)
			scholars.POST("/:id/disbursements", c.Scholar.CreateDisbursement)
			scholars.PATCH("/:id/disbursements/:disbursementId/status", c.Scholar.UpdateDisbursementStatus)
			scholars.DELETE("/:id/disbursements/:disbursementId", c.Scholar.DeleteDisbursement)

			scholars.GET("/:id/noa", c.Scholar.DownloadNOA)
			scholars.POST("/:id/noa/send", c.Scholar.SendNOA)

			scholars.GET("/:id/compliance", c.Requirement.Compliance)
			scholars.GET("/:id/attachments", c.Requirement.ListAttachments(models.AttachableScholar))
			scholars.POST("/:id/attachments", c.Requirement.UploadAttachment(models.AttachableScholar))
			scholars.DELETE("/:id/attachments/:attachmentId", c.Requirement.DeleteAttachment(models.AttachableScholar))
		}

		requirements := program.Group("/requirements", authMiddleware.RoleRequired(models.RoleAdmin))
		{
			requirements.GET("", c.Requirement.ListRequirements)
			requirements.POST("", c.Requirement.CreateRequirement)
			requirements.PUT("/:requirementId", c.Requirement.UpdateRequirement)
			requirements.DELETE("/:requirementId", c.Requirement.DeleteRequirement)
		}

		budget := program.Group("/sub-allotments", authMiddleware.RoleRequired(reportViewers...))
		manage := authMiddleware.RoleRequired(budgetManagers...)
		{
			budget.GET("", c.Finance.ListSubAllotments)
			budget.GET("/:id", c.Finance.GetSubAllotment)
			budget.GET("/:id/obligations", c.Finance.ListObligations)
			budget.POST("", manage, c.Finance.CreateSubAllotment)
			budget.PUT("/:id", manage, c.Finance.UpdateSubAllotment)
			budget.DELETE("/:id", manage, c.Finance.DeleteSubAllotment)
			budget.POST("/:id/obligations", manage, c.Finance.CreateObligation)
			budget.DELETE("/:id/obligations/:obligationId", manage, c.Finance.DeleteObligation)
		}

		// The service checks that the caller holds the role of the current step
		requests := program.Group("/financial-requests", authMiddleware.RoleRequired(reportViewers...))
		{
			requests.GET("", c.Finance.ListRequests)
			requests.POST("", c.Finance.CreateRequest)
			requests.GET("/:id", c.Finance.GetRequest)
			requests.POST("/:id/approve", c.Finance.ApproveRequest)
			requests.POST("/:id/reject", c.Finance.RejectRequest)
			requests.POST("/:id/cancel", c.Finance.CancelRequest)
			requests.GET("/:id/attachments", c.Requirement.ListAttachments(models.AttachableFinancialRequest))
			requests.POST("/:id/attachments", c.Requirement.UploadAttachment(models.AttachableFinancialRequest))
			requests.DELETE("/:id/attachments/:attachmentId", c.Requirement.DeleteAttachment(models.AttachableFinancialRequest))
		}
	}

	// --- Staff documents: open to every account, filtered by ownership ---
	travelOrders := authenticated.Group("/travel-orders")
	{
		travelOrders.GET("", c.Staff.ListTravelOrders)
		travelOrders.POST("", c.Staff.CreateTravelOrder)
		travelOrders.GET("/:id", c.Staff.GetTravelOrder)
		travelOrders.POST("/:id/approve", c.Staff.ApproveTravelOrder)
		travelOrders.POST("/:id/reject", c.Staff.RejectTravelOrder)
		travelOrders.POST("/:id/cancel", c.Staff.CancelTravelOrder)
		travelOrders.POST("/:id/claim", c.Staff.FileTravelClaim)
	}
	travelClaims := authenticated.Group("/travel-claims")
	{
		travelClaims.GET("", c.Staff.ListTravelClaims)
		travelClaims.GET("/:id", c.Staff.GetTravelClaim)
		travelClaims.POST("/:id/approve", c.Staff.ApproveTravelClaim)
		travelClaims.POST("/:id/reject", c.Staff.RejectTravelClaim)
		travelClaims.GET("/:id/attachments", c.Requirement.ListAttachments(models.AttachableTravelClaim))
		travelClaims.POST("/:id/attachments", c.Requirement.UploadAttachment(models.AttachableTravelClaim))
		travelClaims.DELETE("/:id/attachments/:attachmentId", c.Requirement.DeleteAttachment(models.AttachableTravelClaim))
	}
	leaves := authenticated.Group("/leaves")
	{
		leaves.GET("", c.Staff.ListLeaves)
		leaves.POST("", c.Staff.FileLeave)
		leaves.GET("/:id", c.Staff.GetLeave)
		leaves.POST("/:id/approve", c.Staff.ApproveLeave)
		leaves.POST("/:id/reject", c.Staff.RejectLeave)
		leaves.POST("/:id/cancel", c.Staff.CancelLeave)
		leaves.GET("/:id/attachments", c.Requirement.ListAttachments(models.AttachableLeave))
		leaves.POST("/:id/attachments", c.Requirement.UploadAttachment(models.AttachableLeave))
		leaves.DELETE("/:id/attachments/:attachmentId", c.Requirement.DeleteAttachment(models.AttachableLeave))
	}
	slips := authenticated.Group("/locator-slips")
	{
		slips.GET("", c.Staff.ListLocatorSlips)
		slips.POST("", c.Staff.FileLocatorSlip)
		slips.GET("/:id", c.Staff.GetLocatorSlip)
		slips.POST("/:id/return", c.Staff.RecordLocatorReturn)
		slips.POST("/:id/approve", c.Staff.ApproveLocatorSlip)
		slips.POST("/:id/reject", c.Staff.RejectLocatorSlip)
		slips.POST("/:id/cancel", c.Staff.CancelLocatorSlip)
	}
	tickets := authenticated.Group("/trip-tickets")
	{
		tickets.GET("", c.Staff.ListTripTickets)
		tickets.POST("", c.Staff.FileTripTicket)
		tickets.GET("/:id", c.Staff.GetTripTicket)
		tickets.POST("/:id/complete", c.Staff.CompleteTripTicket)
		tickets.POST("/:id/approve", c.Staff.ApproveTripTicket)
		tickets.POST("/:id/reject", c.Staff.RejectTripTicket)
		tickets.POST("/:id/cancel", c.Staff.CancelTripTicket)
	}
}
