package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uttianguis/internal/service"
)

// NotificationHandler exposes the caller's notification inbox.
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// MarkedResponse reports how many notifications were marked read.
type MarkedResponse struct {
	Marked int64 `json:"marked"`
}

// List godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page, starting at 1"
// @Param pageSize query int false "Page size (default 10)"
// @Success 200 {object} service.NotificationPage
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	page, err := h.svc.List(c.Request().Context(), actor, queryInt(c, "page", 1), queryInt(c, "pageSize", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Count godoc
// @Summary Count notifications
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.NotificationCount
// @Router /notifications/count [get]
func (h *NotificationHandler) Count(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	count, err := h.svc.Count(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, count)
}

// Get godoc
// @Summary Get a notification
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} model.Notification
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id} [get]
func (h *NotificationHandler) Get(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	n, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "notification marked as read"})
}

// MarkAllRead godoc
// @Summary Mark every notification as read
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} MarkedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	n, err := h.svc.MarkAllRead(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MarkedResponse{Marked: n})
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "notification deleted"})
}
