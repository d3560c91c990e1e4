package handlers

import (
	"net/http"
	"strings"

	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/budgetgov/budget_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"log/slog"
)

// GoogleOAuthHandler handles Google SSO requests. Both flows end the same way:
// a verified Google identity is mapped to a local user (provisioned as a
// viewer on first login) and an application token pair is issued.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	authHandler        *AuthHandler
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
	authHandler *AuthHandler,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
		authHandler:        authHandler,
	}
}

// registerGoogleOAuthRoutes registers the public Google SSO routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, services *portssvc.ServiceContainer, authHandler *AuthHandler) {
	h := NewGoogleOAuthHandler(services.GoogleOAuth, services.User, services.Token, authHandler)
	googleRoutes := rg.Group("/api/v1/auth/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
		googleRoutes.POST("/token", h.ExchangeIDToken)
	}
}

// ExchangeCodeRequest defines the expected JSON body for the exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// loginFromVerifiedIdentity maps a verified Google identity to a local user
// and responds with a full login payload.
func (h *GoogleOAuthHandler) loginFromVerifiedIdentity(c *gin.Context, email, name string) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := h.userService.FindOrCreateGoogleUser(ctx, email, name)
	if err != nil {
		respondServiceError(c, err, "Failed to process Google sign-in")
		return
	}
	logger.Info("User authenticated via Google", slog.String("user_id", user.UserID))

	userResp := dto.ToUserResponse(user)
	accessToken, refreshToken, ok := h.authHandler.issueTokenPair(c, &userResp)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         userResp,
	})
}

// ExchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for an application token pair
// @Description The frontend sends the authorization code from Google; the backend exchanges it, validates the ID token, maps the identity to a local user and returns application tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	h.validateAndLogin(c, idTokenString)
}

// ExchangeIDToken godoc
// @Summary Exchange a Google ID token for an application token pair
// @Description For clients that run the Google sign-in flow themselves and hold a raw ID token.
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleTokenExchangeRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/token [post]
func (h *GoogleOAuthHandler) ExchangeIDToken(c *gin.Context) {
	var req dto.GoogleTokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}
	h.validateAndLogin(c, req.IDToken)
}

func (h *GoogleOAuthHandler) validateAndLogin(c *gin.Context, idTokenString string) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Essential user information missing from Google token"})
		return
	}
	if !emailVerified {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account email is not verified"})
		return
	}

	h.loginFromVerifiedIdentity(c, email, name)
}
