package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
	"github.com/lovesinghal31/backendcourse/internal/application/query"
)

var (
	errUnauthorizedRequest = common.NewUnauthorizedError("unauthorized request")
	errInvalidAccessToken  = common.NewUnauthorizedError("invalid access token")
)

type Handler struct {
	sessions   interfaces.SessionService
	profiles   interfaces.ProfileService
	tempDir    string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewHandler(
	sessions interfaces.SessionService,
	profiles interfaces.ProfileService,
	tempDir string,
	accessTTL, refreshTTL time.Duration,
) *Handler {
	return &Handler{
		sessions:   sessions,
		profiles:   profiles,
		tempDir:    tempDir,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (h *Handler) Register(c echo.Context) error {
	cmd := &command.RegisterUserCommand{
		FullName: c.FormValue("full_name"),
		Email:    c.FormValue("email"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	avatarPath, err := h.saveUploadedFile(c, "avatar")
	if err != nil {
		return respondError(c, err)
	}
	cmd.AvatarPath = avatarPath

	coverPath, err := h.saveUploadedFile(c, "cover_image")
	if err != nil {
		return respondError(c, err)
	}
	cmd.CoverImagePath = coverPath

	result, err := h.sessions.RequestRegistration(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "OTP sent successfully")
}

func (h *Handler) VerifyRegistration(c echo.Context) error {
	cmd := new(command.VerifyRegistrationCommand)
	if err := c.Bind(cmd); err != nil {
		return respondError(c, common.NewValidationError("invalid request body"))
	}

	result, err := h.sessions.VerifyRegistration(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, result, "user registered successfully")
}

func (h *Handler) Login(c echo.Context) error {
	cmd := new(command.LoginUserCommand)
	if err := c.Bind(cmd); err != nil {
		return respondError(c, common.NewValidationError("invalid request body"))
	}

	result, err := h.sessions.RequestLogin(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "OTP sent successfully")
}

func (h *Handler) VerifyLogin(c echo.Context) error {
	cmd := new(command.VerifyLoginCommand)
	if err := c.Bind(cmd); err != nil {
		return respondError(c, common.NewValidationError("invalid request body"))
	}

	result, err := h.sessions.VerifyLogin(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return respond(c, http.StatusOK, result, "user logged in successfully")
}

func (h *Handler) Logout(c echo.Context) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	if err := h.sessions.Logout(c.Request().Context(), userId); err != nil {
		return respondError(c, err)
	}

	h.clearAuthCookies(c)
	return respond(c, http.StatusOK, nil, "user logged out")
}

func (h *Handler) RefreshToken(c echo.Context) error {
	cmd := new(command.RefreshSessionCommand)
	_ = c.Bind(cmd)

	// The cookie wins over the body, matching how the tokens were issued.
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		cmd.RefreshToken = cookie.Value
	}

	result, err := h.sessions.Refresh(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	return respond(c, http.StatusOK, result, "access token refreshed")
}

func (h *Handler) ChangePassword(c echo.Context) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	cmd := new(command.ChangePasswordCommand)
	if err := c.Bind(cmd); err != nil {
		return respondError(c, common.NewValidationError("invalid request body"))
	}

	if err := h.sessions.ChangePassword(c.Request().Context(), userId, cmd); err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *Handler) GetCurrentUser(c echo.Context) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	result, err := h.profiles.GetCurrentUser(c.Request().Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "current user fetched successfully")
}

func (h *Handler) UpdateAccountDetails(c echo.Context) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	cmd := new(command.UpdateAccountCommand)
	if err := c.Bind(cmd); err != nil {
		return respondError(c, common.NewValidationError("invalid request body"))
	}

	result, err := h.profiles.UpdateAccountDetails(c.Request().Context(), userId, cmd)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "account details updated successfully")
}

func (h *Handler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar", h.profiles.UpdateAvatar)
}

func (h *Handler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "cover_image", h.profiles.UpdateCoverImage)
}

func (h *Handler) GetChannelProfile(c echo.Context) error {
	viewerId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	result, err := h.profiles.GetChannelProfile(c.Request().Context(), c.Param("username"), viewerId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "channel profile fetched successfully")
}

func (h *Handler) GetWatchHistory(c echo.Context) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	result, err := h.profiles.GetWatchHistory(c.Request().Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, "watch history fetched successfully")
}

func (h *Handler) updateImage(
	c echo.Context,
	field string,
	update func(ctx context.Context, userId uuid.UUID, localPath string) (*query.UserQueryResult, error),
) error {
	userId, ok := currentUserId(c)
	if !ok {
		return respondError(c, errUnauthorizedRequest)
	}

	localPath, err := h.saveUploadedFile(c, field)
	if err != nil {
		return respondError(c, err)
	}

	result, err := update(c.Request().Context(), userId, localPath)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, result, field+" updated successfully")
}

func (h *Handler) saveUploadedFile(c echo.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// The field is optional at this layer; the coordinator enforces
		// which files are required.
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", common.NewValidationError(fmt.Sprintf("could not read %s upload", field))
	}
	defer src.Close()

	if err := os.MkdirAll(h.tempDir, 0o755); err != nil {
		return "", err
	}

	dstPath := filepath.Join(h.tempDir, uuid.NewString()+filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", err
	}

	return dstPath, nil
}

func (h *Handler) setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
