package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillhub-io/skillhub-api/internal/models"
	"github.com/skillhub-io/skillhub-api/internal/service"
)

type applicationRepoStub struct {
	apps map[string]*models.InstructorApplication
}

func (m *applicationRepoStub) Create(ctx context.Context, app *models.InstructorApplication) error {
	if m.apps == nil {
		m.apps = make(map[string]*models.InstructorApplication)
	}
	app.ID = "a1"
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	cp := *app
	m.apps[app.Email] = &cp
	return nil
}

func (m *applicationRepoStub) FindByEmail(ctx context.Context, email string) (*models.InstructorApplication, error) {
	if app, ok := m.apps[email]; ok {
		cp := *app
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *applicationRepoStub) UpdateStatusIfPending(ctx context.Context, email string, status models.ApplicationStatus) (*models.InstructorApplication, error) {
	app, ok := m.apps[email]
	if !ok || app.Status != models.ApplicationPending {
		return nil, sql.ErrNoRows
	}
	app.Status = status
	cp := *app
	return &cp, nil
}

type userRepoStub struct{}

func (userRepoStub) UpdateRoleByEmail(ctx context.Context, email string, role models.UserRole) error {
	return nil
}

type mailerStub struct{}

func (mailerStub) Send(ctx context.Context, channel string, params map[string]interface{}) error {
	return nil
}

func newApplicationTestRouter(repo *applicationRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewApplicationService(repo, userRepoStub{}, mailerStub{}, nil, nil, service.ApplicationConfig{
		FrontendURL:   "https://skillhub.example",
		DirectorEmail: "director@skillhub.example",
	})
	h := NewApplicationHandler(svc)

	r := gin.New()
	r.POST("/instructor-applications", h.Submit)
	r.GET("/instructor-applications/status", h.Status)
	r.POST("/instructor-applications/confirm", h.Confirm)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApplicationHandlerSubmitAndStatus(t *testing.T) {
	repo := &applicationRepoStub{}
	r := newApplicationTestRouter(repo)

	w := postJSON(t, r, "/instructor-applications", models.SubmitApplicationRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+123",
		ExpertiseArea:  "Go",
		Experience:     "5 years",
		WhyTeach:       "teaching",
		Qualifications: "BSc",
		Availability:   "weekends",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ := http.NewRequest(http.MethodGet, "/instructor-applications/status?email=jane@example.com", nil)
	sw := httptest.NewRecorder()
	r.ServeHTTP(sw, req)
	require.Equal(t, http.StatusOK, sw.Code)
	assert.Contains(t, sw.Body.String(), `"status":"pending"`)
}

func TestApplicationHandlerSubmitMissingFields(t *testing.T) {
	r := newApplicationTestRouter(&applicationRepoStub{})

	w := postJSON(t, r, "/instructor-applications", models.SubmitApplicationRequest{
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required fields")
}

func TestApplicationHandlerConfirmFlow(t *testing.T) {
	repo := &applicationRepoStub{}
	r := newApplicationTestRouter(repo)

	postJSON(t, r, "/instructor-applications", models.SubmitApplicationRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+123",
		ExpertiseArea:  "Go",
		Experience:     "5 years",
		WhyTeach:       "teaching",
		Qualifications: "BSc",
		Availability:   "weekends",
	})

	confirm := models.ConfirmApplicationRequest{Action: "accept", Email: "jane@example.com", Name: "Jane Doe"}
	w := postJSON(t, r, "/instructor-applications/confirm", confirm)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)

	w = postJSON(t, r, "/instructor-applications/confirm", confirm)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "already processed")
}

func TestApplicationHandlerConfirmInvalidAction(t *testing.T) {
	r := newApplicationTestRouter(&applicationRepoStub{})

	w := postJSON(t, r, "/instructor-applications/confirm", models.ConfirmApplicationRequest{
		Action: "maybe",
		Email:  "jane@example.com",
		Name:   "Jane Doe",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid action")
}
