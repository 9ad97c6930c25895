package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/barangayhub/portal-api/internal/models"
	appErrors "github.com/barangayhub/portal-api/pkg/errors"
)

type mockUserRepo struct {
	usersByEmail  map[string]*models.User
	usersByID     map[string]*models.User
	tokens        map[string]*models.RefreshToken
	created       *models.User
	revokedAll    []string
	revokedTokens []string
	lastLoginErr  error
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	m.created = user
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return m.lastLoginErr
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, hash string, _ time.Time) error {
	if user, ok := m.usersByID[id]; ok {
		user.PasswordHash = hash
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id, firstName, lastName string) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	user.FirstName = firstName
	user.LastName = lastName
	return user, nil
}

func (m *mockUserRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]*models.RefreshToken)
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (m *mockUserRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	m.revokedTokens = append(m.revokedTokens, id)
	for _, stored := range m.tokens {
		if stored.ID == id {
			stored.Revoked = true
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	m.revokedAll = append(m.revokedAll, userID)
	return nil
}

type mockResidentCreator struct {
	created *models.Resident
	err     error
}

func (m *mockResidentCreator) Create(_ context.Context, resident *models.Resident) error {
	if m.err != nil {
		return m.err
	}
	resident.ID = "res-new"
	m.created = resident
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthFixture(users *mockUserRepo, residents *mockResidentCreator) *AuthService {
	return NewAuthService(AuthServiceParams{
		Users:     users,
		Residents: residents,
		Config: AuthConfig{
			AccessTokenSecret:  "test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
			Issuer:             "portal-api-test",
		},
	})
}

func TestAuthRegisterCreatesResidentAccount(t *testing.T) {
	users := &mockUserRepo{usersByEmail: map[string]*models.User{}}
	residents := &mockResidentCreator{}
	svc := newAuthFixture(users, residents)

	session, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "juan@example.com",
		Password:  "str0ngpassword",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Address:   "Purok 2, Sitio Malinis",
	})
	require.NoError(t, err)

	require.NotNil(t, users.created)
	assert.Equal(t, models.RoleResident, users.created.Role)
	assert.True(t, users.created.Active)
	require.NotNil(t, residents.created)
	require.NotNil(t, residents.created.UserID)
	assert.Equal(t, users.created.ID, *residents.created.UserID)
	assert.False(t, residents.created.IsVerified, "new profiles start unverified")

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleResident, claims.Role)
	assert.Equal(t, users.created.ID, claims.UserID)
}

func TestAuthRegisterRejectsDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{usersByEmail: map[string]*models.User{
		"juan@example.com": {ID: "user-1", Email: "juan@example.com"},
	}}
	svc := newAuthFixture(users, &mockResidentCreator{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "juan@example.com",
		Password:  "str0ngpassword",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Address:   "Purok 2",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginRejectsWrongPassword(t *testing.T) {
	users := &mockUserRepo{usersByEmail: map[string]*models.User{
		"juan@example.com": {
			ID:           "user-1",
			Email:        "juan@example.com",
			PasswordHash: hashPassword(t, "correct-password"),
			Active:       true,
		},
	}}
	svc := newAuthFixture(users, &mockResidentCreator{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "juan@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginRejectsInactiveAccount(t *testing.T) {
	users := &mockUserRepo{usersByEmail: map[string]*models.User{
		"juan@example.com": {
			ID:           "user-1",
			Email:        "juan@example.com",
			PasswordHash: hashPassword(t, "correct-password"),
			Active:       false,
		},
	}}
	svc := newAuthFixture(users, &mockResidentCreator{})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "juan@example.com",
		Password: "correct-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "juan@example.com", Active: true, Role: models.RoleResident}
	users := &mockUserRepo{
		usersByID: map[string]*models.User{"user-1": user},
		tokens: map[string]*models.RefreshToken{
			"old-token": {
				ID:        "tok-1",
				UserID:    "user-1",
				Token:     "old-token",
				ExpiresAt: time.Now().UTC().Add(time.Hour),
			},
		},
	}
	svc := newAuthFixture(users, &mockResidentCreator{})

	session, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", session.RefreshToken)
	assert.Contains(t, users.revokedTokens, "tok-1")

	// The rotated-out token must not work a second time.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthRefreshRejectsExpiredToken(t *testing.T) {
	users := &mockUserRepo{
		usersByID: map[string]*models.User{"user-1": {ID: "user-1", Active: true}},
		tokens: map[string]*models.RefreshToken{
			"stale": {
				ID:        "tok-1",
				UserID:    "user-1",
				Token:     "stale",
				ExpiresAt: time.Now().UTC().Add(-time.Minute),
			},
		},
	}
	svc := newAuthFixture(users, &mockResidentCreator{})

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthLogoutRejectsForeignToken(t *testing.T) {
	users := &mockUserRepo{tokens: map[string]*models.RefreshToken{
		"token-a": {ID: "tok-1", UserID: "user-1", Token: "token-a", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	svc := newAuthFixture(users, &mockResidentCreator{})

	err := svc.Logout(context.Background(), "token-a", "user-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, users.revokedTokens)
}

func TestAuthChangePasswordRevokesSessions(t *testing.T) {
	users := &mockUserRepo{usersByID: map[string]*models.User{
		"user-1": {ID: "user-1", PasswordHash: hashPassword(t, "old-password")},
	}}
	svc := newAuthFixture(users, &mockResidentCreator{})

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.Contains(t, users.revokedAll, "user-1")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.usersByID["user-1"].PasswordHash), []byte("brand-new-password")))
}

func TestAuthValidateTokenRejectsForgedToken(t *testing.T) {
	svc := newAuthFixture(&mockUserRepo{}, &mockResidentCreator{})

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
