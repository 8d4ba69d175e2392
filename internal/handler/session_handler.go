package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/utils"
)

// SessionHandler manages the stored bearer token.
type SessionHandler struct {
	session *session.Manager
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(sess *session.Manager) *SessionHandler {
	return &SessionHandler{session: sess}
}

// LoginRequest is the body of POST /v1/session. The token comes from the
// backend's own login flow.
type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// SessionView is the public state of the session.
type SessionView struct {
	Authenticated   bool            `json:"authenticated"`
	SessionID       string          `json:"sessionId"`
	Claims          *session.Claims `json:"claims,omitempty"`
	PendingRedirect string          `json:"pendingRedirect,omitempty"`
}

func (h *SessionHandler) view() SessionView {
	v := SessionView{
		Authenticated:   h.session.Authenticated(),
		SessionID:       h.session.SessionID(),
		PendingRedirect: h.session.PendingRedirect(),
	}
	if claims, ok := h.session.Claims(); ok {
		v.Claims = claims
	}
	return v
}

// GetSession handles GET /v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	utils.Success(c, http.StatusOK, "Session retrieved", h.view())
}

// Login handles POST /v1/session
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "token is required")
		return
	}
	h.session.Login(req.Token)
	utils.Success(c, http.StatusOK, "Logged in", h.view())
}

// Logout handles DELETE /v1/session
func (h *SessionHandler) Logout(c *gin.Context) {
	h.session.Logout()
	utils.Success(c, http.StatusOK, "Logged out", h.view())
}
