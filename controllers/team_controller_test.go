// controllers/team_controller_test.go
//go:build unit
// +build unit

package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hackathon-portal/models"
	"hackathon-portal/services"
)

func newTeamRouter(t *testing.T, svc *services.MockPortalService) *gin.Engine {
	router := setupTestRouter(t)
	tc := NewTeamController(svc)
	router.GET("/team/register", tc.ShowRegisterForm)
	router.POST("/team/register", tc.HandleRegisterForm)
	router.GET("/team/details", tc.TeamDetails)
	router.POST("/team/upload", tc.UploadPayment)
	return router
}

func postForm(router *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestShowRegisterForm_ExistingTeamRedirects verifies that a participant
// with a registered team is sent straight to the details page.
func TestShowRegisterForm_ExistingTeamRedirects(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("MyTeam", "").Return(&models.Team{ID: "t1", TeamName: "Gophers"}, nil)

	router := newTeamRouter(t, mockService)

	req, _ := http.NewRequest("GET", "/team/register", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/team/details", w.Header().Get("Location"))
	mockService.AssertExpectations(t)
}

// TestShowRegisterForm_NoTeamRendersForm verifies the fresh form renders
// even when the team lookup fails outright.
func TestShowRegisterForm_NoTeamRendersForm(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("MyTeam", "").Return(nil, services.ErrNoTeam)
	mockService.On("ProblemStatements").Return([]string{"AI for Good"}, nil)

	router := newTeamRouter(t, mockService)

	req, _ := http.NewRequest("GET", "/team/register", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rows=0")
	mockService.AssertExpectations(t)
}

// TestHandleRegisterForm_ResizeActions walks the member row counts
// through the three team categories.
func TestHandleRegisterForm_ResizeActions(t *testing.T) {
	cases := []struct {
		size string
		rows string
	}{
		{"Solo", "rows=0"},
		{"Duo", "rows=1"},
		{"Team", "rows=2"},
	}

	for _, tc := range cases {
		mockService := new(services.MockPortalService)
		mockService.On("ProblemStatements").Return([]string{"AI for Good"}, nil)
		router := newTeamRouter(t, mockService)

		w := postForm(router, "/team/register", url.Values{
			"action":   {"resize"},
			"teamSize": {tc.size},
			// existing rows must be discarded on resize
			"memberCount":  {"1"},
			"memberEmail0": {"old@example.com"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), tc.rows)
	}
}

// TestHandleRegisterForm_AddAndRemoveRows verifies the add cap of four
// rows and the remove floor of one row for Team category.
func TestHandleRegisterForm_AddAndRemoveRows(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("ProblemStatements").Return([]string{"AI for Good"}, nil)
	router := newTeamRouter(t, mockService)

	// add from 2 -> 3
	w := postForm(router, "/team/register", url.Values{
		"action":      {"add"},
		"teamSize":    {"Team"},
		"memberCount": {"2"},
	})
	assert.Contains(t, w.Body.String(), "rows=3")

	// add at the cap of 4 is ignored
	w = postForm(router, "/team/register", url.Values{
		"action":      {"add"},
		"teamSize":    {"Team"},
		"memberCount": {"4"},
	})
	assert.Contains(t, w.Body.String(), "rows=4")

	// remove below one row is ignored
	w = postForm(router, "/team/register", url.Values{
		"action":      {"remove"},
		"teamSize":    {"Team"},
		"memberCount": {"1"},
		"removeIndex": {"0"},
	})
	assert.Contains(t, w.Body.String(), "rows=1")
}

// TestHandleRegisterForm_InvalidMemberEmail verifies the local email
// check blocks submission before any API call.
func TestHandleRegisterForm_InvalidMemberEmail(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("ProblemStatements").Return([]string{"AI for Good"}, nil)
	router := newTeamRouter(t, mockService)

	w := postForm(router, "/team/register", url.Values{
		"action":           {"register"},
		"teamName":         {"Gophers"},
		"teamSize":         {"Duo"},
		"problemStatement": {"AI for Good"},
		"memberCount":      {"1"},
		"memberEmail0":     {"not-an-email"},
		"memberReg0":       {"REG-2"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email format: not-an-email")
	mockService.AssertNotCalled(t, "RegisterTeam")
}

// TestHandleRegisterForm_PartialRowsDropped verifies a half-filled member
// row is silently excluded from the submitted roster.
func TestHandleRegisterForm_PartialRowsDropped(t *testing.T) {
	mockService := new(services.MockPortalService)
	// dropping every row still yields an empty, non-nil member list
	expected := models.TeamRegistration{
		TeamName:         "Gophers",
		TeamSize:         models.SizeDuo,
		ProblemStatement: "AI for Good",
		Members:          []models.TeamMember{},
	}
	mockService.On("RegisterTeam", "", expected).
		Return(&models.Team{ID: "t1", TeamName: "Gophers"}, nil)

	router := newTeamRouter(t, mockService)

	w := postForm(router, "/team/register", url.Values{
		"action":           {"register"},
		"teamName":         {"Gophers"},
		"teamSize":         {"Duo"},
		"problemStatement": {"AI for Good"},
		"memberCount":      {"1"},
		"memberEmail0":     {"mate@example.com"},
		// registration number left blank, row must be dropped
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "registered Gophers")
	mockService.AssertExpectations(t)
}

// TestTeamDetails_VerifiedHidesUploadForm verifies the verified state
// suppresses the upload form.
func TestTeamDetails_VerifiedHidesUploadForm(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("MyTeam", "").Return(&models.Team{
		ID:            "t1",
		TeamName:      "Gophers",
		PaymentStatus: models.StatusVerified,
	}, nil)

	router := newTeamRouter(t, mockService)

	req, _ := http.NewRequest("GET", "/team/details", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "upload=false")
	assert.Contains(t, w.Body.String(), "qr=false")
	assert.Contains(t, w.Body.String(), "status=verified")
}

// TestTeamDetails_PendingShowsQRBlock verifies the QR block is offered
// while the payment is not yet verified.
func TestTeamDetails_PendingShowsQRBlock(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("MyTeam", "").Return(&models.Team{
		ID:            "t1",
		TeamName:      "Gophers",
		PaymentStatus: models.StatusPending,
	}, nil)

	router := newTeamRouter(t, mockService)

	req, _ := http.NewRequest("GET", "/team/details", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "qr=true")
}

// TestTeamDetails_FetchErrorShowsRegisterCTA verifies any details fetch
// failure falls back to the register call-to-action page.
func TestTeamDetails_FetchErrorShowsRegisterCTA(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("MyTeam", "").Return(nil, &services.APIError{StatusCode: 500, Message: "boom"})

	router := newTeamRouter(t, mockService)

	req, _ := http.NewRequest("GET", "/team/details", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no team yet")
}

// buildUpload assembles a multipart body with one screenshot part.
func buildUpload(t *testing.T, field, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(payload)
	assert.NoError(t, err)

	assert.NoError(t, writer.WriteField("teamId", "t1"))
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadPayment_MissingFile(t *testing.T) {
	mockService := new(services.MockPortalService)
	router := newTeamRouter(t, mockService)

	w := postForm(router, "/team/upload", url.Values{"teamId": {"t1"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please select a payment screenshot")
	mockService.AssertNotCalled(t, "UploadPayment")
}

func TestUploadPayment_RejectsNonImage(t *testing.T) {
	mockService := new(services.MockPortalService)
	router := newTeamRouter(t, mockService)

	body, contentType := buildUpload(t, "paymentScreenshot", "receipt.pdf", "application/pdf", []byte("%PDF"))
	req, _ := http.NewRequest("POST", "/team/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please select an image file")
	mockService.AssertNotCalled(t, "UploadPayment")
}

func TestUploadPayment_RejectsOversizedFile(t *testing.T) {
	mockService := new(services.MockPortalService)
	router := newTeamRouter(t, mockService)

	oversized := bytes.Repeat([]byte{0xFF}, maxUploadBytes+1)
	body, contentType := buildUpload(t, "paymentScreenshot", "shot.png", "image/png", oversized)
	req, _ := http.NewRequest("POST", "/team/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File size must be less than 5MB")
	mockService.AssertNotCalled(t, "UploadPayment")
}

func TestUploadPayment_Success(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("UploadPayment", "", "t1", "shot.png", "image/png", mock.Anything).
		Return(&models.CompressionInfo{
			OriginalSize:     2048,
			CompressedSize:   1024,
			CompressionRatio: "50.0%",
		}, nil)

	router := newTeamRouter(t, mockService)

	body, contentType := buildUpload(t, "paymentScreenshot", "shot.png", "image/png", []byte("png-bytes"))
	req, _ := http.NewRequest("POST", "/team/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uploaded and compressed successfully")
	// the team record is NOT re-fetched after an upload
	mockService.AssertNotCalled(t, "MyTeam")
	mockService.AssertExpectations(t)
}

// TestUploadPayment_SuccessWithoutCompressionInfo verifies a 2xx response
// lacking compression stats still renders the success page.
func TestUploadPayment_SuccessWithoutCompressionInfo(t *testing.T) {
	mockService := new(services.MockPortalService)
	mockService.On("UploadPayment", "", "t1", "shot.png", "image/png", mock.Anything).
		Return(nil, nil)

	router := newTeamRouter(t, mockService)

	body, contentType := buildUpload(t, "paymentScreenshot", "shot.png", "image/png", []byte("png-bytes"))
	req, _ := http.NewRequest("POST", "/team/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uploaded and compressed successfully")
	mockService.AssertExpectations(t)
}
