package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"uttianguis/internal/errors"
	"uttianguis/internal/service"
)

// UserHandler serves profiles.
type UserHandler struct {
	userService    service.UserService
	productService service.ProductService
	maxUploadBytes int64
}

// NewUserHandler creates a handler layer.
func NewUserHandler(userService service.UserService, productService service.ProductService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{userService: userService, productService: productService, maxUploadBytes: maxUploadBytes}
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=20"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=100"`
}

// Me godoc
// @Summary The caller's profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.Profile
// @Router /users/profile [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.userService.Profile(c.Request().Context(), actor.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary A user's public profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/profile/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.userService.Profile(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Edit the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.userService.UpdateProfile(c.Request().Context(), actor, service.ProfilePatch{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.Request().Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}

// UploadProfileImage godoc
// @Summary Upload a profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param image formData file true "Image"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/profile-image [post]
func (h *UserHandler) UploadProfileImage(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return respondError(c, errors.Validation("image is required"))
	}
	data, err := readUpload(fh, h.maxUploadBytes)
	if err != nil {
		return respondError(c, err)
	}
	profile, err := h.userService.UploadProfileImage(c.Request().Context(), actor, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Products godoc
// @Summary A seller's approved listings
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.Product
// @Router /users/{id}/products [get]
func (h *UserHandler) Products(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	products, err := h.productService.BySeller(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}
