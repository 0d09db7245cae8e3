package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRegister_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/register", h.Register)

	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com"}
	mockAuthService.On("Register", mock.Anything, "testuser", "test@example.com").Return(user, nil)

	body, _ := json.Marshal(dto.RegisterRequest{Username: "testuser", Email: "test@example.com"})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.RegisterResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "test@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/register", h.Register)

	mockAuthService.On("Register", mock.Anything, "testuser", "test@example.com").
		Return(nil, service.FieldErrors{"username": {"username already in use"}})

	body, _ := json.Marshal(dto.RegisterRequest{Username: "testuser", Email: "test@example.com"})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string][]string `json:"errors"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Contains(t, response.Errors, "username")

	mockAuthService.AssertExpectations(t)
}

func TestRegister_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/register", h.Register)

	body, _ := json.Marshal(map[string]string{"username": "testuser"})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidJSON(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/register", h.Register)

	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIssueToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.IssueToken)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "code-123").
		Return("signed-token", nil)

	body, _ := json.Marshal(dto.TokenRequest{Username: "testuser", ConfirmationCode: "code-123"})
	req, _ := http.NewRequest("POST", "/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed-token", response.Token)

	mockAuthService.AssertExpectations(t)
}

func TestIssueToken_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.IssueToken)

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "code-123").
		Return("", service.ErrNotFound)

	body, _ := json.Marshal(dto.TokenRequest{Username: "ghost", ConfirmationCode: "code-123"})
	req, _ := http.NewRequest("POST", "/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestIssueToken_WrongCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", h.IssueToken)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "bad-code").
		Return("", service.FieldErrors{"confirmation_code": {"invalid username or confirmation code"}})

	body, _ := json.Marshal(dto.TokenRequest{Username: "testuser", ConfirmationCode: "bad-code"})
	req, _ := http.NewRequest("POST", "/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertExpectations(t)
}
