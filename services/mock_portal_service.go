// file: services/mock_portal_service.go
package services

import (
	"io"

	"github.com/stretchr/testify/mock"

	"hackathon-portal/models"
)

// Ensure MockPortalService implements PortalServiceInterface
var _ PortalServiceInterface = (*MockPortalService)(nil)

// MockPortalService is a mock implementation for testing and extends `mock.Mock`
type MockPortalService struct {
	mock.Mock
}

// Login (Mocked)
func (m *MockPortalService) Login(email, password string) (*AuthResult, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResult), args.Error(1)
}

// Signup (Mocked)
func (m *MockPortalService) Signup(req models.SignupRequest) (*AuthResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AuthResult), args.Error(1)
}

// AdminLogin (Mocked)
func (m *MockPortalService) AdminLogin(email, password string) (*AdminAuthResult, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AdminAuthResult), args.Error(1)
}

// ProblemStatements (Mocked)
func (m *MockPortalService) ProblemStatements() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MyTeam (Mocked)
func (m *MockPortalService) MyTeam(token string) (*models.Team, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// RegisterTeam (Mocked)
func (m *MockPortalService) RegisterTeam(token string, req models.TeamRegistration) (*models.Team, error) {
	args := m.Called(token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// UploadPayment (Mocked)
func (m *MockPortalService) UploadPayment(token, teamID, filename, contentType string, file io.Reader) (*models.CompressionInfo, error) {
	args := m.Called(token, teamID, filename, contentType, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompressionInfo), args.Error(1)
}

// UpdateProfile (Mocked)
func (m *MockPortalService) UpdateProfile(token string, req models.ProfileUpdate) (*models.User, error) {
	args := m.Called(token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ChangeUserPassword (Mocked)
func (m *MockPortalService) ChangeUserPassword(token, currentPassword, newPassword string) error {
	args := m.Called(token, currentPassword, newPassword)
	return args.Error(0)
}

// AdminTeams (Mocked)
func (m *MockPortalService) AdminTeams(token string) ([]models.Team, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

// AdminStats (Mocked)
func (m *MockPortalService) AdminStats(token string) (*models.Stats, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

// UpdatePaymentStatus (Mocked)
func (m *MockPortalService) UpdatePaymentStatus(token, teamID string, status models.PaymentStatus) error {
	args := m.Called(token, teamID, status)
	return args.Error(0)
}

// ChangeAdminPassword (Mocked)
func (m *MockPortalService) ChangeAdminPassword(token, currentPassword, newPassword string) error {
	args := m.Called(token, currentPassword, newPassword)
	return args.Error(0)
}
