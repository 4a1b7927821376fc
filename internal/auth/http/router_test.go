package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/repository"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/service"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/dto"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
	userservice "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/service"
)

const registerBody = `{"email":"jane@example.com","password":"Secret1","name":"Jane"}`

type tokensEnvelope struct {
	Data dto.AuthTokens `json:"data"`
}

type profileEnvelope struct {
	Data dto.Profile `json:"data"`
}

type messageEnvelope struct {
	Data messageResponse `json:"data"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

func setupHandler(t *testing.T) http.Handler {
	t.Helper()

	log := logger.NewWriter(&bytes.Buffer{}, "test", "debug")
	clk := clock.NewRealClock()
	ids := commoncrypto.NewUUIDGenerator()
	users := userrepo.NewMemoryRepository()
	directory := userservice.NewUserService(users, commoncrypto.NewBcryptHasher(4), ids, clk, log)
	accessSigner := jwtverify.NewSigner("access-secret-access-secret-access-secret", ids, clk)

	auth, err := service.NewAuthService(service.AuthServiceDeps{
		Users:         directory,
		RefreshTokens: authrepo.NewMemoryRefreshTokenRepository(users),
		Hasher:        commoncrypto.NewBcryptHasher(4),
		AccessSigner:  accessSigner,
		RefreshSigner: jwtverify.NewSigner("refresh-secret-refresh-secret-refresh-secret", ids, clk),
		Clock:         clk,
		Log:           log,
	}, service.AuthServiceConfig{AccessTokenTTL: "15m", RefreshTokenTTL: "7d"})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	return NewHandler(auth, accessSigner, Config{APIPrefix: "/api/v1", RequestTimeout: 5 * time.Second}, log)
}

func post(h http.Handler, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1"+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func loginJane(t *testing.T, h http.Handler) dto.AuthTokens {
	t.Helper()
	if rec := post(h, "/auth/register", registerBody, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	rec := post(h, "/auth/login", `{"email":"jane@example.com","password":"Secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	return decode[tokensEnvelope](t, rec).Data
}

func TestAuthHTTP_Register(t *testing.T) {
	h := setupHandler(t)

	rec := post(h, "/auth/register", registerBody, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	profile := decode[profileEnvelope](t, rec).Data
	if profile.Email != "jane@example.com" || profile.Role != "USER" || !profile.IsActive {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if profile.ID == "" || profile.SapID == "" {
		t.Error("expected id and sapId")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not expose the password hash")
	}
}

func TestAuthHTTP_Register_Duplicate(t *testing.T) {
	h := setupHandler(t)
	post(h, "/auth/register", registerBody, "")

	rec := post(h, "/auth/register", registerBody, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if env := decode[errorEnvelope](t, rec); env.Code != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %s", env.Code)
	}
}

func TestAuthHTTP_Register_Validation(t *testing.T) {
	h := setupHandler(t)

	rec := post(h, "/auth/register", `{"email":"jane@example.com","password":"secret","name":"Jane"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if env := decode[errorEnvelope](t, rec); env.Details["password"] == nil {
		t.Errorf("expected password detail, got %v", env.Details)
	}
}

func TestAuthHTTP_Login(t *testing.T) {
	h := setupHandler(t)

	tokens := loginJane(t, h)

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if tokens.User.Email != "jane@example.com" {
		t.Errorf("unexpected user: %+v", tokens.User)
	}
}

func TestAuthHTTP_Login_InvalidCredentials(t *testing.T) {
	h := setupHandler(t)
	post(h, "/auth/register", registerBody, "")

	for _, body := range []string{
		`{"email":"jane@example.com","password":"Wrong1pass"}`,
		`{"email":"nobody@example.com","password":"Secret1"}`,
	} {
		rec := post(h, "/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
		if env := decode[errorEnvelope](t, rec); env.Code != "INVALID_CREDENTIALS" {
			t.Errorf("expected INVALID_CREDENTIALS, got %s", env.Code)
		}
	}
}

func TestAuthHTTP_Refresh(t *testing.T) {
	h := setupHandler(t)
	tokens := loginJane(t, h)
	body := `{"refreshToken":"` + tokens.RefreshToken + `"}`

	rec := post(h, "/auth/refresh", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rotated := decode[tokensEnvelope](t, rec).Data
	if rotated.RefreshToken == "" || rotated.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
	if rotated.User.ID != tokens.User.ID {
		t.Errorf("expected the same user, got %+v", rotated.User)
	}

	replay := post(h, "/auth/refresh", body, "")
	if replay.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replay, got %d", replay.Code)
	}
	if env := decode[errorEnvelope](t, replay); env.Code != "INVALID_REFRESH_TOKEN" {
		t.Errorf("expected INVALID_REFRESH_TOKEN, got %s", env.Code)
	}
}

func TestAuthHTTP_Refresh_MissingToken(t *testing.T) {
	h := setupHandler(t)

	rec := post(h, "/auth/refresh", `{}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHTTP_Logout(t *testing.T) {
	h := setupHandler(t)
	tokens := loginJane(t, h)
	body := `{"refreshToken":"` + tokens.RefreshToken + `"}`

	for i := 0; i < 2; i++ {
		rec := post(h, "/auth/logout", body, tokens.AccessToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("logout %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
		if msg := decode[messageEnvelope](t, rec).Data.Message; msg == "" {
			t.Error("expected a message")
		}
	}

	if rec := post(h, "/auth/refresh", body, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("logged out token must not refresh, got %d", rec.Code)
	}
}

func TestAuthHTTP_Logout_RequiresBearer(t *testing.T) {
	h := setupHandler(t)
	tokens := loginJane(t, h)
	body := `{"refreshToken":"` + tokens.RefreshToken + `"}`

	if rec := post(h, "/auth/logout", body, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer, got %d", rec.Code)
	}
	if rec := post(h, "/auth/logout", body, tokens.RefreshToken); rec.Code != http.StatusUnauthorized {
		t.Fatalf("a refresh token is not an access token, got %d", rec.Code)
	}
	if rec := post(h, "/auth/refresh", body, ""); rec.Code != http.StatusOK {
		t.Fatalf("rejected logouts must leave the session alive, got %d", rec.Code)
	}
}

func TestAuthHTTP_MethodNotAllowed(t *testing.T) {
	h := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
