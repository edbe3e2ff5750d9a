// services/qrcode_service.go
package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"

	"hackathon-portal/models"
)

// QRCodeEncoder matches qrcode.Encode; injected so tests can substitute
// a failing encoder.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateTeamQRCode creates a PNG QR code carrying the team's
// registration information.
func GenerateTeamQRCode(team *models.Team, applicationURL string, size int, encode QRCodeEncoder) ([]byte, error) {
	if encode == nil {
		encode = qrcode.Encode
	}

	content := fmt.Sprintf("%s/team/details?team=%s&name=%s",
		applicationURL, team.RegistrationNumber, team.TeamName)

	png, err := encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
