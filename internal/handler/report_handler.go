package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uttianguis/internal/errors"
	"uttianguis/internal/service"
)

// ReportHandler handles user and product reports.
type ReportHandler struct {
	reportService  service.ReportService
	maxUploadBytes int64
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{reportService: reportService, maxUploadBytes: maxUploadBytes}
}

// ResolveRequest carries the admin's resolution text.
type ResolveRequest struct {
	Resolution string `json:"resolution" validate:"required,max=500"`
}

// Create godoc
// @Summary Report a user or a product
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param reportedUserId formData string false "Reported user ID"
// @Param reportedProductId formData string false "Reported product ID"
// @Param subject formData string true "Subject"
// @Param description formData string false "Description"
// @Param screenshot formData file true "Screenshot"
// @Success 201 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}

	in := service.ReportInput{
		Subject:     c.FormValue("subject"),
		Description: c.FormValue("description"),
	}
	if in.ReportedUserID, err = optionalUUID(c.FormValue("reportedUserId"), "reportedUserId"); err != nil {
		return err
	}
	if in.ReportedProductID, err = optionalUUID(c.FormValue("reportedProductId"), "reportedProductId"); err != nil {
		return err
	}

	fh, err := c.FormFile("screenshot")
	if err != nil {
		return respondError(c, errors.Validation("screenshot is required"))
	}
	if in.Screenshot, err = readUpload(fh, h.maxUploadBytes); err != nil {
		return respondError(c, err)
	}

	report, err := h.reportService.Create(c.Request().Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, report)
}

// List godoc
// @Summary List reports
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Pending, Resolved or Rejected"
// @Success 200 {array} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	reports, err := h.reportService.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reports)
}

// Get godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Report
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reportService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Resolve godoc
// @Summary Resolve a report
// @Tags moderation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param request body ResolveRequest true "Resolution"
// @Success 200 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reports/{id}/resolve [put]
func (h *ReportHandler) Resolve(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ResolveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	report, err := h.reportService.Resolve(c.Request().Context(), actor, id, req.Resolution)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Dismiss godoc
// @Summary Dismiss a report as invalid
// @Tags moderation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Report ID"
// @Param request body ReasonRequest true "Reason"
// @Success 200 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reports/{id}/dismiss [put]
func (h *ReportHandler) Dismiss(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ReasonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	report, err := h.reportService.Dismiss(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
