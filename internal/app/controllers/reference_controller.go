package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// ReferenceController serves programs, the address hierarchy and HEIs
type ReferenceController struct {
	programService  *services.ProgramService
	locationService *services.LocationService
	heiService      *services.HEIService
}

// NewReferenceController creates a new ReferenceController
func NewReferenceController(programService *services.ProgramService, locationService *services.LocationService, heiService *services.HEIService) *ReferenceController {
	return &ReferenceController{
		programService:  programService,
		locationService: locationService,
		heiService:      heiService,
	}
}

// ListPrograms lists the scholarship programs
// @Summary List programs
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Program}
// @Router /programs [get]
func (c *ReferenceController) ListPrograms(ctx *gin.Context) {
	programs, err := c.programService.ListPrograms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(programs))
}

// ListProvinces lists provinces
// @Summary List provinces
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Province}
// @Router /provinces [get]
func (c *ReferenceController) ListProvinces(ctx *gin.Context) {
	provinces, err := c.locationService.ListProvinces(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(provinces))
}

// CreateProvince adds a province
// @Summary Create a province
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProvinceRequest true "Province"
// @Success 201 {object} dto.APIResponse{data=models.Province}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Province already exists"
// @Router /provinces [post]
func (c *ReferenceController) CreateProvince(ctx *gin.Context) {
	var req dto.ProvinceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	province, err := c.locationService.CreateProvince(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(province))
}

// UpdateProvince renames a province
// @Summary Update a province
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Province ID"
// @Param request body dto.ProvinceRequest true "Province"
// @Success 200 {object} dto.APIResponse{data=models.Province}
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Router /provinces/{id} [put]
func (c *ReferenceController) UpdateProvince(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ProvinceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	province, err := c.locationService.UpdateProvince(ctx.Request.Context(), id, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(province))
}

// DeleteProvince removes a province
// @Summary Delete a province
// @Tags locations
// @Security BearerAuth
// @Param id path int true "Province ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Failure 409 {object} dto.ErrorResponse "Province has dependent records"
// @Router /provinces/{id} [delete]
func (c *ReferenceController) DeleteProvince(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.locationService.DeleteProvince(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListCities lists the cities and municipalities of a province
// @Summary List cities of a province
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Province ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Locality}
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Router /provinces/{id}/cities [get]
func (c *ReferenceController) ListCities(ctx *gin.Context) {
	c.listLocalities(ctx, repositories.LocalityCity)
}

// ListDistricts lists the congressional districts of a province
// @Summary List districts of a province
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Province ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Locality}
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Router /provinces/{id}/districts [get]
func (c *ReferenceController) ListDistricts(ctx *gin.Context) {
	c.listLocalities(ctx, repositories.LocalityDistrict)
}

func (c *ReferenceController) listLocalities(ctx *gin.Context, kind repositories.LocalityKind) {
	provinceID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	localities, err := c.locationService.ListLocalities(ctx.Request.Context(), kind, provinceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(localities))
}

// CreateCity adds a city or municipality
// @Summary Create a city
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LocalityRequest true "City"
// @Success 201 {object} dto.APIResponse{data=models.Locality}
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Failure 409 {object} dto.ErrorResponse "City already exists"
// @Router /cities [post]
func (c *ReferenceController) CreateCity(ctx *gin.Context) {
	c.createLocality(ctx, repositories.LocalityCity)
}

// CreateDistrict adds a congressional district
// @Summary Create a district
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LocalityRequest true "District"
// @Success 201 {object} dto.APIResponse{data=models.Locality}
// @Failure 404 {object} dto.ErrorResponse "Province not found"
// @Failure 409 {object} dto.ErrorResponse "District already exists"
// @Router /districts [post]
func (c *ReferenceController) CreateDistrict(ctx *gin.Context) {
	c.createLocality(ctx, repositories.LocalityDistrict)
}

func (c *ReferenceController) createLocality(ctx *gin.Context, kind repositories.LocalityKind) {
	var req dto.LocalityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	locality, err := c.locationService.CreateLocality(ctx.Request.Context(), kind, req.ProvinceID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(locality))
}

// UpdateCity renames or moves a city
// @Summary Update a city
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "City ID"
// @Param request body dto.LocalityRequest true "City"
// @Success 200 {object} dto.APIResponse{data=models.Locality}
// @Failure 404 {object} dto.ErrorResponse "City not found"
// @Router /cities/{id} [put]
func (c *ReferenceController) UpdateCity(ctx *gin.Context) {
	c.updateLocality(ctx, repositories.LocalityCity)
}

// UpdateDistrict renames or moves a district
// @Summary Update a district
// @Tags locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Param request body dto.LocalityRequest true "District"
// @Success 200 {object} dto.APIResponse{data=models.Locality}
// @Failure 404 {object} dto.ErrorResponse "District not found"
// @Router /districts/{id} [put]
func (c *ReferenceController) UpdateDistrict(ctx *gin.Context) {
	c.updateLocality(ctx, repositories.LocalityDistrict)
}

func (c *ReferenceController) updateLocality(ctx *gin.Context, kind repositories.LocalityKind) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.LocalityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	locality, err := c.locationService.UpdateLocality(ctx.Request.Context(), kind, id, req.ProvinceID, req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(locality))
}

// DeleteCity removes an unreferenced city
// @Summary Delete a city
// @Tags locations
// @Security BearerAuth
// @Param id path int true "City ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.ErrorResponse "City is in use"
// @Router /cities/{id} [delete]
func (c *ReferenceController) DeleteCity(ctx *gin.Context) {
	c.deleteLocality(ctx, repositories.LocalityCity)
}

// DeleteDistrict removes an unreferenced district
// @Summary Delete a district
// @Tags locations
// @Security BearerAuth
// @Param id path int true "District ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.ErrorResponse "District is in use"
// @Router /districts/{id} [delete]
func (c *ReferenceController) DeleteDistrict(ctx *gin.Context) {
	c.deleteLocality(ctx, repositories.LocalityDistrict)
}

func (c *ReferenceController) deleteLocality(ctx *gin.Context, kind repositories.LocalityKind) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.locationService.DeleteLocality(ctx.Request.Context(), kind, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListHEIs lists institutions
// @Summary List HEIs
// @Description Lists higher education institutions with search, province and type filters
// @Tags heis
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or UII contains"
// @Param provinceId query int false "Province ID"
// @Param type query string false "HEI type" Enums(PUBLIC, PRIVATE, SUC, LUC)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.HEIListResponse}
// @Failure 422 {object} dto.ErrorResponse "Unknown HEI type"
// @Router /heis [get]
func (c *ReferenceController) ListHEIs(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	params := repositories.HEIListParams{
		Search:     strings.TrimSpace(ctx.Query("search")),
		ProvinceID: helpers.QueryInt64(ctx, "provinceId"),
		Type:       models.HEIType(strings.ToUpper(ctx.Query("type"))),
		Page:       page,
		Size:       size,
	}
	heis, pagination, err := c.heiService.ListHEIs(ctx.Request.Context(), params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.HEIListResponse{HEIs: heis}, pagination))
}

// GetHEI returns one institution
// @Summary Get an HEI
// @Tags heis
// @Produce json
// @Security BearerAuth
// @Param id path int true "HEI ID"
// @Success 200 {object} dto.APIResponse{data=models.HEI}
// @Failure 404 {object} dto.ErrorResponse "HEI not found"
// @Router /heis/{id} [get]
func (c *ReferenceController) GetHEI(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	hei, err := c.heiService.GetHEI(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hei))
}

// CreateHEI registers an institution
// @Summary Create an HEI
// @Tags heis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.HEIRequest true "HEI"
// @Success 201 {object} dto.APIResponse{data=models.HEI}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "UII already registered"
// @Router /heis [post]
func (c *ReferenceController) CreateHEI(ctx *gin.Context) {
	var req dto.HEIRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	hei, err := c.heiService.CreateHEI(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(hei))
}

// UpdateHEI replaces an institution
// @Summary Update an HEI
// @Tags heis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "HEI ID"
// @Param request body dto.HEIRequest true "HEI"
// @Success 200 {object} dto.APIResponse{data=models.HEI}
// @Failure 404 {object} dto.ErrorResponse "HEI not found"
// @Failure 409 {object} dto.ErrorResponse "UII already registered"
// @Router /heis/{id} [put]
func (c *ReferenceController) UpdateHEI(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.HEIRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	hei, err := c.heiService.UpdateHEI(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(hei))
}

// DeleteHEI removes an institution without academic records
// @Summary Delete an HEI
// @Tags heis
// @Security BearerAuth
// @Param id path int true "HEI ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "HEI not found"
// @Failure 409 {object} dto.ErrorResponse "HEI has academic records"
// @Router /heis/{id} [delete]
func (c *ReferenceController) DeleteHEI(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.heiService.DeleteHEI(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
