package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/http/response"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	twinService services.TwinService
	chatService services.ChatService
}

func NewAuthHandler(authService services.AuthService, twinService services.TwinService, chatService services.ChatService) *AuthHandler {
	return &AuthHandler{authService: authService, twinService: twinService, chatService: chatService}
}

// POST /api/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user := types.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ok": true, "user": user})
}

// POST /api/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pair, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/refresh
// body: { "refresh_token": "..." }
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pair, err := ah.authService.RefreshUser(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /api/logout ends the session: the token is revoked and the twin and transcript are dropped.
func (ah *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	userID := ctxutil.UserID(ctx)
	if err := ah.authService.LogoutUser(ctx); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if ah.twinService != nil {
		ah.twinService.EndSession(ctx, userID)
	}
	if ah.chatService != nil {
		ah.chatService.Reset(userID)
	}
	response.RespondOK(c, gin.H{"ok": true})
}
