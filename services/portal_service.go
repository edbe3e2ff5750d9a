// Package services talks to the remote portal API on behalf of the
// controllers. Every meaningful computation (uniqueness checks, password
// hashing, payment verification, image compression) happens on the other
// side of this client.
// File: services/portal_service.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"hackathon-portal/logger"
	"hackathon-portal/models"
)

// ------------------ errors ------------------

// sentinel errors recognised by the controllers
var (
	// ErrUnauthorized means the API rejected the token; the caller must
	// clear the local session and send the user back to login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoTeam means the caller has no registered team.
	ErrNoTeam = errors.New("no team registered")
)

// APIError carries an error body returned by the portal API, either a
// single message or a field-level error list.
type APIError struct {
	StatusCode int
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// Error surfaces the message field first, then the joined error list,
// then a generic fallback.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, ", ")
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// ------------------ service interface ------------------

// AuthResult is the token + user pair returned by login and signup.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AdminAuthResult is the token + admin pair returned by admin login.
type AdminAuthResult struct {
	Token string       `json:"token"`
	Admin models.Admin `json:"admin"`
}

// PortalServiceInterface is the surface the controllers depend on; the
// mock implementation backs the controller tests.
type PortalServiceInterface interface {
	Login(email, password string) (*AuthResult, error)
	Signup(req models.SignupRequest) (*AuthResult, error)
	AdminLogin(email, password string) (*AdminAuthResult, error)

	ProblemStatements() ([]string, error)
	MyTeam(token string) (*models.Team, error)
	RegisterTeam(token string, req models.TeamRegistration) (*models.Team, error)
	UploadPayment(token, teamID, filename, contentType string, file io.Reader) (*models.CompressionInfo, error)

	UpdateProfile(token string, req models.ProfileUpdate) (*models.User, error)
	ChangeUserPassword(token, currentPassword, newPassword string) error

	AdminTeams(token string) ([]models.Team, error)
	AdminStats(token string) (*models.Stats, error)
	UpdatePaymentStatus(token, teamID string, status models.PaymentStatus) error
	ChangeAdminPassword(token, currentPassword, newPassword string) error
}

// PortalService is the HTTP implementation of PortalServiceInterface.
type PortalService struct {
	baseURL string
	client  *http.Client
}

// compile-time check
var _ PortalServiceInterface = (*PortalService)(nil)

// NewPortalService creates a client for the portal API at baseURL.
func NewPortalService(baseURL string) *PortalService {
	return &PortalService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ------------------ request plumbing ------------------

// doJSON performs a JSON request against the API and decodes the response
// envelope into out (when out is non-nil). 401 responses become
// ErrUnauthorized; other non-2xx responses become an *APIError carrying
// whatever message/errors body the API sent.
func (s *PortalService) doJSON(method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error.Printf("doJSON: %s %s failed: %v", method, path, err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return s.decodeResponse(resp, method, path, out)
}

// decodeResponse maps the response status and body onto our error
// taxonomy, then decodes the envelope.
func (s *PortalService) decodeResponse(resp *http.Response, method, path string, out interface{}) error {
	if resp.StatusCode == http.StatusUnauthorized {
		logger.Warn.Printf("decodeResponse: %s %s returned 401", method, path)
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// a body that is not the error envelope still yields the fallback text
		_ = json.Unmarshal(raw, apiErr)
		logger.Warn.Printf("decodeResponse: %s %s returned %d: %s", method, path, resp.StatusCode, apiErr.Error())
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ------------------ authentication ------------------

// Login exchanges participant credentials for a token + user pair.
func (s *PortalService) Login(email, password string) (*AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := s.doJSON(http.MethodPost, "/users/login", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup registers a new participant account.
func (s *PortalService) Signup(req models.SignupRequest) (*AuthResult, error) {
	var result AuthResult
	if err := s.doJSON(http.MethodPost, "/users/signup", "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminLogin exchanges admin credentials for a token + admin pair.
func (s *PortalService) AdminLogin(email, password string) (*AdminAuthResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var result AdminAuthResult
	if err := s.doJSON(http.MethodPost, "/admin/login", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ------------------ teams ------------------

// ProblemStatements fetches the fixed catalog of problem statements.
func (s *PortalService) ProblemStatements() ([]string, error) {
	var envelope struct {
		ProblemStatements []string `json:"problemStatements"`
	}
	if err := s.doJSON(http.MethodGet, "/teams/problem-statements", "", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.ProblemStatements, nil
}

// MyTeam fetches the caller's team. ErrNoTeam is returned both for a 404
// and for a null team in the envelope; "not found" is the expected common
// case here, not an exception.
func (s *PortalService) MyTeam(token string) (*models.Team, error) {
	var envelope struct {
		Team *models.Team `json:"team"`
	}
	err := s.doJSON(http.MethodGet, "/teams/my-team", token, nil, &envelope)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNoTeam
		}
		return nil, err
	}
	if envelope.Team == nil {
		return nil, ErrNoTeam
	}
	return envelope.Team, nil
}

// RegisterTeam submits a team registration.
func (s *PortalService) RegisterTeam(token string, req models.TeamRegistration) (*models.Team, error) {
	var envelope struct {
		Team *models.Team `json:"team"`
	}
	if err := s.doJSON(http.MethodPost, "/teams/register", token, req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Team, nil
}

// UploadPayment sends the payment screenshot plus the team identifier as
// multipart form data, and returns the server-side compression stats.
func (s *PortalService) UploadPayment(token, teamID, filename, contentType string, file io.Reader) (*models.CompressionInfo, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := writer.WriteField("teamId", teamID); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/teams/upload-payment", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error.Printf("UploadPayment: request failed: %v", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		CompressionInfo *models.CompressionInfo `json:"compressionInfo"`
	}
	if err := s.decodeResponse(resp, http.MethodPost, "/teams/upload-payment", &envelope); err != nil {
		return nil, err
	}
	return envelope.CompressionInfo, nil
}

// ------------------ profile ------------------

// UpdateProfile saves the mutable profile fields and returns the updated
// user record.
func (s *PortalService) UpdateProfile(token string, req models.ProfileUpdate) (*models.User, error) {
	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := s.doJSON(http.MethodPut, "/users/profile", token, req, &envelope); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// ChangeUserPassword changes the participant's password.
func (s *PortalService) ChangeUserPassword(token, currentPassword, newPassword string) error {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return s.doJSON(http.MethodPut, "/users/change-password", token, payload, nil)
}

// ------------------ admin ------------------

// AdminTeams fetches the full team list for the dashboard.
func (s *PortalService) AdminTeams(token string) ([]models.Team, error) {
	var envelope struct {
		Teams []models.Team `json:"teams"`
	}
	if err := s.doJSON(http.MethodGet, "/admin/teams", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Teams, nil
}

// AdminStats fetches the aggregate counters for the dashboard.
func (s *PortalService) AdminStats(token string) (*models.Stats, error) {
	var envelope struct {
		Stats *models.Stats `json:"stats"`
	}
	if err := s.doJSON(http.MethodGet, "/admin/stats", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Stats, nil
}

// UpdatePaymentStatus persists a payment status transition for a team.
func (s *PortalService) UpdatePaymentStatus(token, teamID string, status models.PaymentStatus) error {
	payload := map[string]string{"paymentStatus": string(status)}
	return s.doJSON(http.MethodPut, "/admin/teams/"+teamID+"/payment-status", token, payload, nil)
}

// ChangeAdminPassword changes the admin's password.
func (s *PortalService) ChangeAdminPassword(token, currentPassword, newPassword string) error {
	payload := map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}
	return s.doJSON(http.MethodPut, "/admin/change-password", token, payload, nil)
}
