package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
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

type authUserRepoStub struct {
	byEmail map[string]*models.User
	nextID  int
}

func (m *authUserRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authUserRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *authUserRepoStub) Create(ctx context.Context, user *models.User) error {
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.User)
	}
	m.nextID++
	user.ID = fmt.Sprintf("u%d", m.nextID)
	cp := *user
	m.byEmail[user.Email] = &cp
	return nil
}

func (m *authUserRepoStub) UpdateProfile(ctx context.Context, id, name, photoURL string) error {
	return nil
}

// newTestRouter mounts the full route table over stub-backed services.
func newTestRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(&authUserRepoStub{}, nil, nil, service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "skillhub-api",
	})
	applicationService := service.NewApplicationService(&applicationRepoStub{}, userRepoStub{}, mailerStub{}, nil, nil, service.ApplicationConfig{
		FrontendURL:   "https://skillhub.example",
		DirectorEmail: "director@skillhub.example",
	})

	h := Handlers{
		Auth:         NewAuthHandler(authService, "token", time.Hour),
		Applications: NewApplicationHandler(applicationService),
	}

	r := gin.New()
	RegisterRoutes(r, "/api/v1", h, authService, "token")
	return r, authService
}

func sessionTokenFor(t *testing.T, authService *service.AuthService, name, email string) string {
	t.Helper()
	err := authService.Register(context.Background(), models.RegisterRequest{
		Name: name, Email: email, Password: "secret123",
	})
	require.NoError(t, err)

	res, err := authService.Login(context.Background(), models.LoginRequest{
		Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return res.Token
}

func TestApplicationSubmitRequiresSession(t *testing.T) {
	r, _ := newTestRouter(t)

	body, err := json.Marshal(models.SubmitApplicationRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+123",
		ExpertiseArea:  "Go",
		Experience:     "5 years",
		WhyTeach:       "teaching",
		Qualifications: "BSc",
		Availability:   "weekends",
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/instructor-applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest(http.MethodPost, "/api/v1/instructor-applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationSubmitWithSession(t *testing.T) {
	r, authService := newTestRouter(t)
	token := sessionTokenFor(t, authService, "Jane Doe", "jane@example.com")

	body, err := json.Marshal(models.SubmitApplicationRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+123",
		ExpertiseArea:  "Go",
		Experience:     "5 years",
		WhyTeach:       "teaching",
		Qualifications: "BSc",
		Availability:   "weekends",
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/instructor-applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
}

func TestApplicationStatusAndConfirmStayPublic(t *testing.T) {
	r, authService := newTestRouter(t)
	token := sessionTokenFor(t, authService, "Jane Doe", "jane@example.com")

	body, _ := json.Marshal(models.SubmitApplicationRequest{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		Phone:          "+123",
		ExpertiseArea:  "Go",
		Experience:     "5 years",
		WhyTeach:       "teaching",
		Qualifications: "BSc",
		Availability:   "weekends",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/instructor-applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/instructor-applications/status?email=jane@example.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	confirm, _ := json.Marshal(models.ConfirmApplicationRequest{Action: "accept", Email: "jane@example.com", Name: "Jane Doe"})
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/instructor-applications/confirm", bytes.NewReader(confirm))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCertificateGenerationRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	// Generation mutates state, so it lives behind POST and a session.
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/certificates/c1/generate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/certificates/c1/generate", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
