// Package controllers implements the team registration and payment
// confirmation workflow.
// File: controllers/team_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"hackathon-portal/logger"
	"hackathon-portal/metrics"
	"hackathon-portal/models"
	"hackathon-portal/services"
)

// maxUploadBytes is the enforced screenshot limit. The form help text
// still advertises 10MB, matching the original portal.
const maxUploadBytes = 5 * 1024 * 1024

// TeamController drives the registration form, the details view and the
// payment screenshot upload.
type TeamController struct {
	Service services.PortalServiceInterface
}

// NewTeamController initializes a new instance of TeamController
func NewTeamController(service services.PortalServiceInterface) *TeamController {
	return &TeamController{Service: service}
}

// sessionToken returns the participant token stored at login.
func sessionToken(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get("authToken").(string)
	return token
}

// expireSession clears the session and sends the visitor to the given
// login page; used when the API reports the token is no longer valid.
func expireSession(c *gin.Context, loginPath string) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, loginPath)
}

// ------------------ registration form state ------------------

// registerForm is the explicit form state re-rendered on every action.
type registerForm struct {
	TeamName         string
	TeamSize         models.TeamSize
	ProblemStatement string
	Rows             []models.MemberInput
}

// readRegisterForm rebuilds the form state from the posted fields.
func readRegisterForm(c *gin.Context) registerForm {
	form := registerForm{
		TeamName:         c.PostForm("teamName"),
		TeamSize:         models.TeamSize(c.DefaultPostForm("teamSize", string(models.SizeSolo))),
		ProblemStatement: c.PostForm("problemStatement"),
	}
	if !form.TeamSize.Valid() {
		form.TeamSize = models.SizeSolo
	}

	count, _ := strconv.Atoi(c.PostForm("memberCount"))
	if count < 0 {
		count = 0
	}
	if count > form.TeamSize.MaxRows() {
		count = form.TeamSize.MaxRows()
	}
	for i := 0; i < count; i++ {
		form.Rows = append(form.Rows, models.MemberInput{
			Email:              strings.TrimSpace(c.PostForm("memberEmail" + strconv.Itoa(i))),
			RegistrationNumber: strings.TrimSpace(c.PostForm("memberReg" + strconv.Itoa(i))),
		})
	}
	return form
}

// renderRegisterPage renders the registration form with current state.
func (tc *TeamController) renderRegisterPage(c *gin.Context, status int, form registerForm, statements []string, errMsg string) {
	c.HTML(status, "team_register.html", gin.H{
		"Authenticated":     true,
		"User":              sessionUser(c),
		"Form":              form,
		"ProblemStatements": statements,
		"CanAddMember":      form.TeamSize == models.SizeTeam && len(form.Rows) < form.TeamSize.MaxRows(),
		"CanRemoveMember":   len(form.Rows) > 1,
		"Error":             errMsg,
	})
}

// fetchProblemStatements loads the selector catalog; a failed fetch is
// logged and leaves the selector empty rather than breaking the page.
func (tc *TeamController) fetchProblemStatements() []string {
	statements, err := tc.Service.ProblemStatements()
	if err != nil {
		logger.Error.Printf("fetchProblemStatements: error fetching problem statements: %v", err)
		return nil
	}
	return statements
}

// ------------------ registration flow ------------------

// ShowRegisterForm checks for an existing team and, if none exists,
// renders a fresh registration form. Any failure of the my-team call is
// treated as "no team" and the visitor proceeds to register.
func (tc *TeamController) ShowRegisterForm(c *gin.Context) {
	token := sessionToken(c)

	if team, err := tc.Service.MyTeam(token); err == nil && team != nil {
		// Team already exists, go straight to team details
		logger.Info.Printf("ShowRegisterForm: team %s already registered, redirecting", team.TeamName)
		c.Redirect(http.StatusFound, "/team/details")
		return
	} else if err != nil && !errors.Is(err, services.ErrNoTeam) {
		logger.Debug.Printf("ShowRegisterForm: my-team check failed (%v), proceeding with registration", err)
	}

	form := registerForm{
		TeamSize: models.SizeSolo,
		Rows:     models.NewMemberRows(models.SizeSolo),
	}
	tc.renderRegisterPage(c, http.StatusOK, form, tc.fetchProblemStatements(), "")
}

// HandleRegisterForm processes every registration form action: size
// switches, member row add/remove, and the final submission. The row
// state machine lives server-side so each action re-renders the form.
func (tc *TeamController) HandleRegisterForm(c *gin.Context) {
	form := readRegisterForm(c)
	action := c.DefaultPostForm("action", "register")

	switch action {
	case "resize":
		// switching category discards previously entered member data
		form.Rows = models.NewMemberRows(form.TeamSize)
		tc.renderRegisterPage(c, http.StatusOK, form, tc.fetchProblemStatements(), "")
		return

	case "add":
		if form.TeamSize == models.SizeTeam && len(form.Rows) < form.TeamSize.MaxRows() {
			form.Rows = append(form.Rows, models.MemberInput{})
		}
		tc.renderRegisterPage(c, http.StatusOK, form, tc.fetchProblemStatements(), "")
		return

	case "remove":
		idx, err := strconv.Atoi(c.PostForm("removeIndex"))
		if err == nil && idx >= 0 && idx < len(form.Rows) && len(form.Rows) > 1 {
			form.Rows = append(form.Rows[:idx], form.Rows[idx+1:]...)
		}
		tc.renderRegisterPage(c, http.StatusOK, form, tc.fetchProblemStatements(), "")
		return
	}

	tc.submitRegistration(c, form)
}

// submitRegistration validates the form and calls the registration API.
func (tc *TeamController) submitRegistration(c *gin.Context, form registerForm) {
	if form.TeamName == "" {
		tc.renderRegisterPage(c, http.StatusBadRequest, form, tc.fetchProblemStatements(), "Please enter a team name.")
		return
	}
	if form.ProblemStatement == "" {
		tc.renderRegisterPage(c, http.StatusBadRequest, form, tc.fetchProblemStatements(), "Please select a problem statement.")
		return
	}

	members, err := models.CollectMembers(form.Rows)
	if err != nil {
		tc.renderRegisterPage(c, http.StatusBadRequest, form, tc.fetchProblemStatements(), err.Error())
		return
	}

	registration := models.TeamRegistration{
		TeamName:         form.TeamName,
		TeamSize:         form.TeamSize,
		ProblemStatement: form.ProblemStatement,
		Members:          members,
	}

	team, err := tc.Service.RegisterTeam(sessionToken(c), registration)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		logger.Error.Printf("submitRegistration: team registration error: %v", err)
		tc.renderRegisterPage(c, http.StatusBadRequest, form, tc.fetchProblemStatements(), registrationErrorMessage(err))
		return
	}

	logger.Info.Printf("submitRegistration: team %s registered", registration.TeamName)
	// success page redirects to team details after 2 seconds
	c.HTML(http.StatusOK, "team_register_success.html", gin.H{
		"Authenticated": true,
		"Team":          team,
		"RedirectAfter": 2,
	})
}

// registrationErrorMessage surfaces the API message, then the joined
// field errors, then a generic fallback.
func registrationErrorMessage(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Failed to register team"
}

// ------------------ team details & payment upload ------------------

// TeamDetails renders the caller's team with the payment status state
// machine. No team - or any fetch failure, which the original treats the
// same way - renders the register call-to-action instead of an error.
func (tc *TeamController) TeamDetails(c *gin.Context) {
	team, err := tc.Service.MyTeam(sessionToken(c))
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		if !errors.Is(err, services.ErrNoTeam) {
			logger.Error.Printf("TeamDetails: error fetching team details: %v", err)
		}
		c.HTML(http.StatusOK, "team_none.html", gin.H{"Authenticated": true})
		return
	}

	c.HTML(http.StatusOK, "team_details.html", gin.H{
		"Authenticated": true,
		"Team":          team,
		"ShowUpload":    team.PaymentStatus != models.StatusVerified,
		"ShowQR":        team.PaymentStatus != models.StatusVerified,
		"UnderReview":   team.PaymentStatus == models.StatusPending && team.PaymentScreenshot != "",
	})
}

// UploadPayment validates the selected screenshot and forwards it to the
// API as multipart form data. On success the compression stats come back
// for display; the team record is NOT re-fetched, so the details page
// stays stale until the next navigation.
func (tc *TeamController) UploadPayment(c *gin.Context) {
	teamID := c.PostForm("teamId")

	renderResult := func(status int, data gin.H) {
		data["Authenticated"] = true
		c.HTML(status, "upload_result.html", data)
	}

	fileHeader, err := c.FormFile("paymentScreenshot")
	if err != nil {
		renderResult(http.StatusBadRequest, gin.H{"Error": "Please select a payment screenshot"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		renderResult(http.StatusBadRequest, gin.H{"Error": "Please select an image file"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		renderResult(http.StatusBadRequest, gin.H{"Error": "File size must be less than 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error.Printf("UploadPayment: failed to open upload: %v", err)
		renderResult(http.StatusInternalServerError, gin.H{"Error": "Failed to upload payment screenshot"})
		return
	}
	defer func() { _ = file.Close() }()

	info, err := tc.Service.UploadPayment(sessionToken(c), teamID, fileHeader.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		logger.Error.Printf("UploadPayment: upload error: %v", err)
		renderResult(http.StatusBadGateway, gin.H{"Error": uploadErrorMessage(err)})
		return
	}

	metrics.PublishPaymentUploadBytes(fileHeader.Size, Env)
	logger.Info.Printf("UploadPayment: screenshot uploaded for team %s (%d bytes)", teamID, fileHeader.Size)

	// the API may omit compression stats; the success page then shows
	// the message alone
	data := gin.H{"Success": "Payment screenshot uploaded and compressed successfully!"}
	if info != nil {
		data["CompressionInfo"] = info
		data["OriginalKB"] = models.KB(info.OriginalSize)
		data["CompressedKB"] = models.KB(info.CompressedSize)
	}
	renderResult(http.StatusOK, data)
}

func uploadErrorMessage(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Failed to upload payment screenshot"
}

// ------------------ team QR code ------------------

// TeamQRCode streams a PNG QR code carrying the team registration info.
func (tc *TeamController) TeamQRCode(c *gin.Context) {
	team, err := tc.Service.MyTeam(sessionToken(c))
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			expireSession(c, "/login")
			return
		}
		c.String(http.StatusNotFound, "No team registered")
		return
	}

	png, err := services.GenerateTeamQRCode(team, ApplicationURL, 300, nil)
	if err != nil {
		logger.Error.Printf("TeamQRCode: error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", "inline; filename=\"team-"+team.RegistrationNumber+"-qr.png\"")
	if _, err := c.Writer.Write(png); err != nil {
		logger.Error.Printf("TeamQRCode: error writing QR code bytes: %v", err)
	}
}
