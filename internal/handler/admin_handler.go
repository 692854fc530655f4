package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uttianguis/internal/service"
)

// AdminHandler handles the administrator endpoints that are not report or
// product moderation.
type AdminHandler struct {
	adminService service.AdminService
	statsService service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, statsService service.StatsService) *AdminHandler {
	return &AdminHandler{adminService: adminService, statsService: statsService}
}

// Dashboard godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.DashboardStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/statistics/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.statsService.Dashboard(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ReportStatistics godoc
// @Summary Report queue statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.ReportStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/statistics/reports [get]
func (h *AdminHandler) ReportStatistics(c echo.Context) error {
	stats, err := h.statsService.Reports(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Suspend godoc
// @Summary Suspend a user
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param request body ReasonRequest true "Reason"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/suspend [put]
func (h *AdminHandler) Suspend(c echo.Context) error {
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
	user, err := h.adminService.Suspend(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Activate godoc
// @Summary Reactivate a suspended user
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/activate [put]
func (h *AdminHandler) Activate(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.adminService.Activate(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// RemoveProduct godoc
// @Summary Take a product down
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Param request body ReasonRequest true "Reason"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id}/remove [put]
func (h *AdminHandler) RemoveProduct(c echo.Context) error {
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
	product, err := h.adminService.RemoveProduct(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
