package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillhub-io/skillhub-api/internal/models"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

type mockAuthUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.byEmail[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.User)
	}
	if m.byID == nil {
		m.byID = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "u1"
	}
	cp := *user
	m.byEmail[user.Email] = &cp
	m.byID[user.ID] = &cp
	return nil
}

func (m *mockAuthUserRepo) UpdateProfile(ctx context.Context, id, name, photoURL string) error {
	if user, ok := m.byID[id]; ok {
		user.Name = name
		user.PhotoURL = photoURL
	}
	return nil
}

func newAuthService(repo *mockAuthUserRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "skillhub-test",
	})
}

func TestAuthRegisterAndLogin(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	stored := repo.byEmail["jane@example.com"]
	require.NotNil(t, stored, "emails are normalised on registration")
	assert.Equal(t, models.RoleStudent, stored.Role)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Welcome back Jane Doe", res.Message)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	req := models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(context.Background(), req))

	err := svc.Register(context.Background(), req)
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, typed.Code)
	assert.Contains(t, typed.Message, "already exists")
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	require.NoError(t, svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret123",
	}))

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateToken(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	require.NoError(t, svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret123",
	}))
	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "jane@example.com", claims.Email)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	other := NewAuthService(repo, nil, nil, AuthConfig{TokenSecret: "different", TokenExpiry: time.Hour})
	_, err = other.ValidateToken(res.Token)
	require.Error(t, err)
}

func TestAuthUpdateProfile(t *testing.T) {
	repo := &mockAuthUserRepo{}
	svc := newAuthService(repo)

	require.NoError(t, svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret123",
	}))

	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		Name:     "Jane D.",
		PhotoURL: "https://cdn.example.com/jane.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane D.", user.Name)
	assert.Equal(t, "https://cdn.example.com/jane.png", user.PhotoURL)

	_, err = svc.UpdateProfile(context.Background(), "missing", models.UpdateProfileRequest{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
