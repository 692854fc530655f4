package handler

import (
	"bytes"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uttianguis/internal/errors"
)

// uploadHeader builds the multipart file header a request for data would carry.
func uploadHeader(t *testing.T, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "foto.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestReadUpload(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 64)

	tests := []struct {
		name        string
		maxBytes    int64
		expectError bool
	}{
		{name: "within limit", maxBytes: 128},
		{name: "exactly at limit", maxBytes: 64},
		{name: "no limit", maxBytes: 0},
		{name: "over limit", maxBytes: 63, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readUpload(uploadHeader(t, data), tt.maxBytes)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, errors.ErrValidation))
				assert.Contains(t, err.Error(), "foto.png")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestUUIDParam(t *testing.T) {
	e := echo.New()
	id := uuid.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	got, err := uuidParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c.SetParamValues("not-a-uuid")
	_, err = uuidParam(c, "id")
	var httpErr *echo.HTTPError
	require.True(t, stderrors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "INVALID_UUID", httpErr.Message.(errors.ErrorResponse).Code)
}

func TestOptionalUUID(t *testing.T) {
	got, err := optionalUUID("", "reportedUserId")
	assert.NoError(t, err)
	assert.Nil(t, got)

	id := uuid.New()
	got, err = optionalUUID(id.String(), "reportedUserId")
	require.NoError(t, err)
	assert.Equal(t, id, *got)

	_, err = optionalUUID("123", "reportedUserId")
	assert.ErrorContains(t, err, "invalid reportedUserId")
}

func TestQueryInt(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=3&pageSize=abc", nil), httptest.NewRecorder())

	assert.Equal(t, 3, queryInt(c, "page", 1))
	assert.Equal(t, 10, queryInt(c, "pageSize", 10))
	assert.Equal(t, 7, queryInt(c, "missing", 7))
}

func TestRespondError(t *testing.T) {
	e := echo.New()
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "validation", err: errors.Validation("bad"), expectedStatus: http.StatusBadRequest, expectedCode: "VALIDATION_ERROR"},
		{name: "not found", err: errors.NotFound("product"), expectedStatus: http.StatusNotFound, expectedCode: "NOT_FOUND"},
		{name: "forbidden", err: errors.ErrInsufficientRole, expectedStatus: http.StatusForbidden, expectedCode: "FORBIDDEN"},
		{name: "conflict", err: errors.ErrAlreadyDecided, expectedStatus: http.StatusConflict, expectedCode: "CONFLICT"},
		{name: "unexpected", err: stderrors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			err := respondError(c, tt.err)

			var httpErr *echo.HTTPError
			require.True(t, stderrors.As(err, &httpErr))
			assert.Equal(t, tt.expectedStatus, httpErr.Code)
			assert.Equal(t, tt.expectedCode, httpErr.Message.(errors.ErrorResponse).Code)
		})
	}
}
