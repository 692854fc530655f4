package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"uttianguis/internal/service"
)

// RatingHandler handles user ratings.
type RatingHandler struct {
	svc service.RatingService
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// RatingRequest rates another user.
type RatingRequest struct {
	RatedUserID string `json:"ratedUserId" validate:"required,uuid"`
	Value       int    `json:"value" validate:"required,min=1,max=5"`
	Comment     string `json:"comment" validate:"max=500"`
}

// Rate godoc
// @Summary Rate a user
// @Tags ratings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body RatingRequest true "Rating"
// @Success 200 {object} model.Rating
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req RatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ratedID, err := uuid.Parse(req.RatedUserID)
	if err != nil {
		return invalidRequest("invalid ratedUserId")
	}

	rating, err := h.svc.Rate(c.Request().Context(), actor, service.RatingInput{
		RatedUserID: ratedID,
		Value:       req.Value,
		Comment:     req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rating)
}

// ForUser godoc
// @Summary Ratings received by a user
// @Tags ratings
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {object} service.UserRatings
// @Failure 404 {object} errors.ErrorResponse
// @Router /ratings/user/{userId} [get]
func (h *RatingHandler) ForUser(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	ratings, err := h.svc.ForUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ratings)
}
