package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
	"github.com/lovesinghal31/backendcourse/internal/application/query"
	"github.com/lovesinghal31/backendcourse/internal/config"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure"
)

type stubSessions struct {
	loginResult   *command.VerifyLoginCommandResult
	refreshResult *command.RefreshSessionCommandResult
	refreshSeen   string
	loggedOut     []uuid.UUID
	err           error
}

func (s *stubSessions) RequestRegistration(ctx context.Context, cmd *command.RegisterUserCommand) (*command.RegisterUserCommandResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &command.RegisterUserCommandResult{Message: "OTP sent to " + cmd.Email}, nil
}

func (s *stubSessions) VerifyRegistration(ctx context.Context, cmd *command.VerifyRegistrationCommand) (*command.VerifyRegistrationCommandResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &command.VerifyRegistrationCommandResult{Result: &common.UserResult{Email: cmd.Email}}, nil
}

func (s *stubSessions) RequestLogin(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &command.LoginUserCommandResult{Message: "OTP sent"}, nil
}

func (s *stubSessions) VerifyLogin(ctx context.Context, cmd *command.VerifyLoginCommand) (*command.VerifyLoginCommandResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.loginResult, nil
}

func (s *stubSessions) Refresh(ctx context.Context, cmd *command.RefreshSessionCommand) (*command.RefreshSessionCommandResult, error) {
	s.refreshSeen = cmd.RefreshToken
	if s.err != nil {
		return nil, s.err
	}
	return s.refreshResult, nil
}

func (s *stubSessions) Logout(ctx context.Context, userId uuid.UUID) error {
	s.loggedOut = append(s.loggedOut, userId)
	return s.err
}

func (s *stubSessions) ChangePassword(ctx context.Context, userId uuid.UUID, cmd *command.ChangePasswordCommand) error {
	return s.err
}

type stubProfiles struct {
	currentUser *query.UserQueryResult
	err         error
}

func (s *stubProfiles) GetCurrentUser(ctx context.Context, userId uuid.UUID) (*query.UserQueryResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.currentUser, nil
}

func (s *stubProfiles) UpdateAccountDetails(ctx context.Context, userId uuid.UUID, cmd *command.UpdateAccountCommand) (*query.UserQueryResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &query.UserQueryResult{Result: &common.UserResult{FullName: cmd.FullName, Email: cmd.Email}}, nil
}

func (s *stubProfiles) UpdateAvatar(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error) {
	return &query.UserQueryResult{Result: &common.UserResult{Avatar: "https://cdn/" + localPath}}, s.err
}

func (s *stubProfiles) UpdateCoverImage(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error) {
	return &query.UserQueryResult{Result: &common.UserResult{}}, s.err
}

func (s *stubProfiles) GetChannelProfile(ctx context.Context, username string, viewerId uuid.UUID) (*query.ChannelProfileResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &query.ChannelProfileResult{Username: username}, nil
}

func (s *stubProfiles) GetWatchHistory(ctx context.Context, userId uuid.UUID) (*query.WatchHistoryResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &query.WatchHistoryResult{Result: []query.WatchHistoryEntry{}}, nil
}

func newTestServer(t *testing.T, sessions *stubSessions, profiles *stubProfiles) (*echo.Echo, *infrastructure.JWTService) {
	t.Helper()
	tokens := infrastructure.NewJWTService(&config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    24 * time.Hour,
	})

	e := echo.New()
	h := NewHandler(sessions, profiles, t.TempDir(), time.Hour, 24*time.Hour)
	RegisterRoutes(e, h, tokens)
	return e, tokens
}

func doJSON(e *echo.Echo, method, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ApiResponse {
	t.Helper()
	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func bearerToken(t *testing.T, tokens *infrastructure.JWTService, userId uuid.UUID) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(userId)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestLoginEnvelope(t *testing.T) {
	e, _ := newTestServer(t, &stubSessions{}, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/login", `{"email":"a@x.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OTP sent successfully", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestErrorEnvelope(t *testing.T) {
	sessions := &stubSessions{err: common.NewNotFoundError("user does not exist")}
	e, _ := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/login", `{"email":"ghost@x.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "user does not exist", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestUnknownErrorBecomesInternal(t *testing.T) {
	sessions := &stubSessions{err: assert.AnError}
	e, _ := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/login", `{"email":"a@x.com","password":"pw"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyLoginSetsCookies(t *testing.T) {
	sessions := &stubSessions{loginResult: &command.VerifyLoginCommandResult{
		User:         &common.UserResult{Username: "johndoe"},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}}
	e, _ := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/login/verify", `{"email":"a@x.com","otp":"123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	require.Contains(t, byName, "accessToken")
	require.Contains(t, byName, "refreshToken")
	assert.Equal(t, "access-token", byName["accessToken"].Value)
	assert.Equal(t, "refresh-token", byName["refreshToken"].Value)
	assert.True(t, byName["accessToken"].HttpOnly)
	assert.True(t, byName["refreshToken"].Secure)
}

func TestRefreshCookieWinsOverBody(t *testing.T) {
	sessions := &stubSessions{refreshResult: &command.RefreshSessionCommandResult{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}}
	e, _ := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/refresh-token", `{"refresh_token":"from-body"}`, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "from-cookie"})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-cookie", sessions.refreshSeen)
}

func TestRefreshFallsBackToBody(t *testing.T) {
	sessions := &stubSessions{refreshResult: &command.RefreshSessionCommandResult{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}}
	e, _ := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/refresh-token", `{"refresh_token":"from-body"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-body", sessions.refreshSeen)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	e, _ := newTestServer(t, &stubSessions{}, &stubProfiles{})

	rec := doJSON(e, http.MethodGet, "/api/v1/users/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized request", decodeEnvelope(t, rec).Message)
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	e, _ := newTestServer(t, &stubSessions{}, &stubProfiles{})

	rec := doJSON(e, http.MethodGet, "/api/v1/users/current-user", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer not-a-token")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid access token", decodeEnvelope(t, rec).Message)
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	userId := uuid.New()
	profiles := &stubProfiles{currentUser: &query.UserQueryResult{Result: &common.UserResult{Id: userId, Username: "johndoe"}}}
	e, tokens := newTestServer(t, &stubSessions{}, profiles)

	rec := doJSON(e, http.MethodGet, "/api/v1/users/current-user", "", func(req *http.Request) {
		req.Header.Set("Authorization", bearerToken(t, tokens, userId))
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	userId := uuid.New()
	profiles := &stubProfiles{currentUser: &query.UserQueryResult{Result: &common.UserResult{Id: userId}}}
	e, tokens := newTestServer(t, &stubSessions{}, profiles)

	access, err := tokens.GenerateAccessToken(userId)
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/v1/users/current-user", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCookiesAndUsesTokenIdentity(t *testing.T) {
	userId := uuid.New()
	sessions := &stubSessions{}
	e, tokens := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/logout", "", func(req *http.Request) {
		req.Header.Set("Authorization", bearerToken(t, tokens, userId))
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sessions.loggedOut, 1)
	assert.Equal(t, userId, sessions.loggedOut[0])

	for _, cookie := range rec.Result().Cookies() {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestGetChannelProfilePassesUsernameParam(t *testing.T) {
	userId := uuid.New()
	e, tokens := newTestServer(t, &stubSessions{}, &stubProfiles{})

	rec := doJSON(e, http.MethodGet, "/api/v1/users/c/johndoe", "", func(req *http.Request) {
		req.Header.Set("Authorization", bearerToken(t, tokens, userId))
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"username":"johndoe"`)
}

func TestChangePasswordRequiresBody(t *testing.T) {
	userId := uuid.New()
	sessions := &stubSessions{err: common.NewValidationError("invalid old password")}
	e, tokens := newTestServer(t, sessions, &stubProfiles{})

	rec := doJSON(e, http.MethodPost, "/api/v1/users/change-password", `{"old_password":"x","new_password":"y"}`, func(req *http.Request) {
		req.Header.Set("Authorization", bearerToken(t, tokens, userId))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
