package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"uttianguis/internal/errors"
	"uttianguis/internal/repository"
	"uttianguis/internal/service"
)

const maxImagesPerRequest = 5

// ProductHandler handles product listing and moderation endpoints.
type ProductHandler struct {
	productService service.ProductService
	maxUploadBytes int64
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{productService: productService, maxUploadBytes: maxUploadBytes}
}

// CreateProductRequest represents a new listing.
type CreateProductRequest struct {
	Title           string          `json:"title" validate:"required,max=100"`
	Description     string          `json:"description" validate:"required"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"150.00"`
	CategoryID      string          `json:"categoryId" validate:"required,uuid"`
	Condition       string          `json:"condition" validate:"required"`
	MeetingPoint    string          `json:"meetingPoint" validate:"max=200"`
	ContactWhatsapp string          `json:"contactWhatsapp" validate:"required"`
}

// UpdateProductRequest is a partial update. Omitted or empty fields are kept.
type UpdateProductRequest struct {
	Title           *string          `json:"title" validate:"omitempty,max=100"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price" swaggertype:"string"`
	CategoryID      *string          `json:"categoryId" validate:"omitempty,uuid"`
	Condition       *string          `json:"condition"`
	MeetingPoint    *string          `json:"meetingPoint" validate:"omitempty,max=200"`
	ContactWhatsapp *string          `json:"contactWhatsapp"`
	IsSold          *bool            `json:"isSold"`
}

// List godoc
// @Summary Browse approved listings
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "Category name"
// @Param search query string false "Text in title or description"
// @Param condition query string false "Item condition"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param page query int false "Page, starting at 1"
// @Param pageSize query int false "Page size"
// @Success 200 {object} service.ProductPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filter := repository.ProductFilter{
		Category:  c.QueryParam("category"),
		Search:    c.QueryParam("search"),
		Condition: c.QueryParam("condition"),
		Page:      queryInt(c, "page", 0),
		PageSize:  queryInt(c, "pageSize", 0),
	}
	var err error
	if filter.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		return err
	}
	if filter.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		return err
	}

	page, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Featured godoc
// @Summary Newest approved listings
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Product
// @Router /products/featured [get]
func (h *ProductHandler) Featured(c echo.Context) error {
	products, err := h.productService.Featured(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Pending godoc
// @Summary Review queue
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.Product
// @Failure 403 {object} errors.ErrorResponse
// @Router /products/pending [get]
func (h *ProductHandler) Pending(c echo.Context) error {
	products, err := h.productService.Pending(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Submit a product for review
// @Tags products
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreateProductRequest true "Listing"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return invalidRequest("invalid categoryId")
	}

	product, err := h.productService.Create(c.Request().Context(), actor, service.ProductInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      categoryID,
		Condition:       req.Condition,
		MeetingPoint:    req.MeetingPoint,
		ContactWhatsapp: req.ContactWhatsapp,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// Update godoc
// @Summary Edit a product
// @Tags products
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Param request body UpdateProductRequest true "Fields to change"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := service.ProductPatch{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Condition:       req.Condition,
		MeetingPoint:    req.MeetingPoint,
		ContactWhatsapp: req.ContactWhatsapp,
		IsSold:          req.IsSold,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return invalidRequest("invalid categoryId")
		}
		patch.CategoryID = &categoryID
	}

	product, err := h.productService.Update(c.Request().Context(), actor, id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Withdraw a product
// @Tags products
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}

// AddImages godoc
// @Summary Upload product images
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Param images formData file true "One or more images"
// @Param mainImageIndex formData int false "Index of the image to flag as main"
// @Param isMainImage query bool false "Flag the first uploaded image as main"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products/{id}/images [post]
func (h *ProductHandler) AddImages(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	form, err := c.MultipartForm()
	if err != nil {
		return invalidRequest("expected multipart form data")
	}
	files := append(form.File["images"], form.File["image"]...)
	if len(files) == 0 {
		return respondError(c, errors.Validation("at least one image is required"))
	}
	if len(files) > maxImagesPerRequest {
		return respondError(c, errors.Validation("a product can have at most 5 images"))
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh, h.maxUploadBytes)
		if err != nil {
			return respondError(c, err)
		}
		images = append(images, data)
	}

	mainIndex := -1
	if v := c.FormValue("mainImageIndex"); v != "" {
		if mainIndex, err = strconv.Atoi(v); err != nil {
			return invalidRequest("invalid mainImageIndex")
		}
	} else if isMain, _ := strconv.ParseBool(c.QueryParam("isMainImage")); isMain {
		mainIndex = 0
	}

	product, err := h.productService.AddImages(c.Request().Context(), actor, id, images, mainIndex)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Approve godoc
// @Summary Approve a pending product
// @Tags moderation
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products/{id}/approve [put]
func (h *ProductHandler) Approve(c echo.Context) error {
	actor, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Approve(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Reject godoc
// @Summary Reject a product
// @Tags moderation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Product ID"
// @Param request body ReasonRequest true "Rejection reason"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /products/{id}/reject [put]
func (h *ProductHandler) Reject(c echo.Context) error {
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
	product, err := h.productService.Reject(c.Request().Context(), actor, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, invalidRequest("invalid " + name)
	}
	return &d, nil
}
