package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rtodev/sim-admin/internal/account"
	"github.com/rtodev/sim-admin/internal/database"
	"github.com/rtodev/sim-admin/internal/models"
	"github.com/rtodev/sim-admin/internal/server"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.Account{},
		&models.VerificationToken{},
		&models.PasswordResetToken{},
		&models.Session{},
		&models.License{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

// FakeMailer records outbound mail instead of dialing SMTP. Set Fail to
// exercise the degraded-success paths.
type FakeMailer struct {
	mu   sync.Mutex
	Fail bool
	Sent []FakeMail
}

type FakeMail struct {
	To      string
	Subject string
	Body    string
}

func (m *FakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.Sent = append(m.Sent, FakeMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *FakeMailer) LastTo(to string) *FakeMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sent) - 1; i >= 0; i-- {
		if m.Sent[i].To == to {
			return &m.Sent[i]
		}
	}
	return nil
}

func SetupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *FakeMailer) {
	db := TestDB(t)
	database.DB = db

	mail := &FakeMailer{}
	app := server.New(db, mail)
	return app, db, mail
}

// CreateTestAccount inserts an account directly, bypassing the
// registration flow.
func CreateTestAccount(t *testing.T, db *gorm.DB, email, password, role string, verified bool) *models.Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err, "Failed to hash test password")

	acc := &models.Account{
		FullName:     "Test Account",
		Address:      "1 Test Street",
		Phone:        "0812345678",
		Email:        email,
		Password:     string(hash),
		Role:         role,
		IsVerified:   verified,
		RegisteredOn: datatypes.Date(time.Now()),
	}

	err = db.Create(acc).Error
	assert.NoError(t, err, "Failed to create test account")

	return acc
}

// CreateTestSession issues a session token for an account without going
// through the login endpoint, keeping handler tests clear of the login
// rate limiter.
func CreateTestSession(t *testing.T, db *gorm.DB, accountID uint) string {
	token, err := account.OpaqueToken()
	assert.NoError(t, err, "Failed to generate session token")

	sess := &models.Session{
		AccountID: accountID,
		TokenHash: account.HashToken(token),
		ExpiresAt: time.Now().Add(account.SessionTTL),
	}
	err = db.Create(sess).Error
	assert.NoError(t, err, "Failed to create test session")

	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	if result.Error != nil {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
