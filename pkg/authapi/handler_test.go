package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"katydid-common-auth/pkg/authsvc"
	"katydid-common-auth/pkg/config"
	"katydid-common-auth/pkg/idgen"
	"katydid-common-auth/pkg/products"
)

// memoryStore 用户存储的内存实现（测试用）
type memoryStore struct {
	mu      sync.Mutex
	byEmail map[string]*authsvc.User
	byName  map[string]*authsvc.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byEmail: make(map[string]*authsvc.User),
		byName:  make(map[string]*authsvc.User),
	}
}

func (s *memoryStore) Create(_ context.Context, user *authsvc.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[user.Email] = user
	s.byName[user.Username] = user
	return nil
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*authsvc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, authsvc.ErrUserNotFound
}

func (s *memoryStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *memoryStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[username]
	return ok, nil
}

// memoryTokenStore 会话存储的内存实现（测试用）
type memoryTokenStore struct {
	mu       sync.Mutex
	sessions map[string]int64
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{sessions: make(map[string]int64)}
}

func (s *memoryTokenStore) Save(_ context.Context, jti string, userID int64, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[jti] = userID
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[jti]
	return ok, nil
}

func (s *memoryTokenStore) Delete(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, jti)
	return nil
}

// newTestRouter 组装一个全内存后端的路由
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	ids, err := idgen.New(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := authsvc.NewSessionManager(config.JWTConfig{
		Secret: "clave-de-prueba",
		TTL:    time.Hour,
		Issuer: "huellitas-test",
	}, ids, newMemoryTokenStore())
	if err != nil {
		t.Fatal(err)
	}
	svc, err := authsvc.NewService(newMemoryStore(), sessions, ids, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := products.NewService(newMemoryProductStore(), ids, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return NewRouter(svc, catalog, zap.NewNop(), gin.TestMode)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, header map[string]string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp Response
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (%s)", err, w.Body.String())
		}
	}
	return w, resp
}

func validRegister() registerPayload {
	return registerPayload{
		Name:            "Ana María",
		Email:           "ana@example.com",
		Password:        "Segura123",
		PasswordConfirm: "Segura123",
	}
}

func TestRegisterHandler(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, msgRegistered, resp.Message)
}

func TestRegisterHandlerInvalidFields(t *testing.T) {
	r := newTestRouter(t)

	payload := validRegister()
	payload.Email = "no-es-un-correo"
	payload.PasswordConfirm = "Otra1234"

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "email", resp.FocusField)
	assert.Len(t, resp.Errors, 2)
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)

	_, first := doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)
	assert.True(t, first.Success)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, msgEmailTaken, resp.Message)
}

func TestRegisterHandlerBadPayload(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{no json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", loginPayload{
		Email:    "ana@example.com",
		Password: "Segura123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, redirectAfterLogin, resp.RedirectURL)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/login", loginPayload{
		Email:    "ana@example.com",
		Password: "Incorrecta1",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, msgBadCredentials, resp.Message)
	assert.Empty(t, resp.Token)
}

func TestSessionHandlerRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/auth/session", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgUnauthorized, resp.Message)
}

func TestSessionAndLogoutFlow(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/auth/register", validRegister(), nil)
	_, login := doJSON(t, r, http.MethodPost, "/api/auth/login", loginPayload{
		Email:    "ana@example.com",
		Password: "Segura123",
	}, nil)

	auth := map[string]string{"Authorization": "Bearer " + login.Token}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", auth["Authorization"])
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var session map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "ana@example.com", session["email"])
	userID, ok := session["user_id"].(float64)
	assert.True(t, ok)
	assert.Greater(t, userID, float64(0))

	w2, resp := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, auth)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.True(t, resp.Success)

	w3, _ := doJSON(t, r, http.MethodGet, "/api/auth/session", nil, auth)
	assert.Equal(t, http.StatusUnauthorized, w3.Code)
}
