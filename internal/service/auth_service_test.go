package service

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/config"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			AccessTokenDuration: 15 * time.Minute,
		},
	}

	adminRepo := repository.NewAdminRepository(db, logger)
	return NewAuthService(adminRepo, nil, cfg, logger), mock
}

func adminColumns() []string {
	return []string{"id", "username", "password_hash"}
}

// bcryptHashOf matches any argument that is a valid bcrypt hash of the
// given password, proving plaintext never reaches the database.
type bcryptHashOf string

func (b bcryptHashOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && bcrypt.CompareHashAndPassword([]byte(s), []byte(string(b))) == nil
}

func TestCreateAdminStoresHashOnly(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`INSERT INTO admins`).
		WithArgs("librarian", bcryptHashOf("correct horse battery staple")).
		WillReturnRows(sqlmock.NewRows(adminColumns()).AddRow(1, "librarian", "stored-by-db"))

	admin, err := svc.CreateAdmin(context.Background(), &model.AdminCreate{
		Username: "librarian",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.Equal(t, "librarian", admin.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccessAndTokenRoundTrip(t *testing.T) {
	svc, mock := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("sekret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM admins WHERE username = \$1`).
		WithArgs("librarian").
		WillReturnRows(sqlmock.NewRows(adminColumns()).AddRow(3, "librarian", string(hash)))

	token, err := svc.Login(context.Background(), &model.AdminLogin{
		Username: "librarian",
		Password: "sekret-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, 3, token.Admin.ID)

	adminID, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 3, adminID)
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	svc, mock := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("sekret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM admins WHERE username = \$1`).
		WithArgs("librarian").
		WillReturnRows(sqlmock.NewRows(adminColumns()).AddRow(3, "librarian", string(hash)))

	_, err = svc.Login(context.Background(), &model.AdminLogin{
		Username: "librarian",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Equal(t, "Invalid username or password", apperr.Message(err))
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM admins WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(adminColumns()))

	_, err := svc.Login(context.Background(), &model.AdminLogin{
		Username: "nobody",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	assert.Equal(t, "Invalid username or password", apperr.Message(err))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestLogoutWithoutRedis(t *testing.T) {
	svc, _ := newAuthService(t)

	// Best-effort only: no denylist, but logout still succeeds.
	assert.NoError(t, svc.Logout(context.Background(), "some-token", 3))
}

func TestGetAdminMissing(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT \* FROM admins WHERE id = \$1`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(adminColumns()))

	_, err := svc.GetAdmin(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, "Admin not found", apperr.Message(err))
}
