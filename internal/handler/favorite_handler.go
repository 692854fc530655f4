package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uttianguis/internal/service"
)

// FavoriteHandler manages the caller's favorites.
type FavoriteHandler struct {
	svc service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(svc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// FavoriteStatus tells whether a product is in the caller's favorites.
type FavoriteStatus struct {
	IsFavorite bool `json:"isFavorite"`
}

// List godoc
// @Summary List favorite products
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Product
// @Router /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	products, err := h.svc.List(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Add godoc
// @Summary Add a product to favorites
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{productId} [post]
func (h *FavoriteHandler) Add(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	if err := h.svc.Add(c.Request().Context(), actor, productID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product added to favorites"})
}

// Remove godoc
// @Summary Remove a product from favorites
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/{productId} [delete]
func (h *FavoriteHandler) Remove(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	if err := h.svc.Remove(c.Request().Context(), actor, productID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product removed from favorites"})
}

// Check godoc
// @Summary Check whether a product is a favorite
// @Tags favorites
// @Produce json
// @Security ApiKeyAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} FavoriteStatus
// @Router /favorites/{productId}/check [get]
func (h *FavoriteHandler) Check(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	ok, err := h.svc.Check(c.Request().Context(), actor, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, FavoriteStatus{IsFavorite: ok})
}
