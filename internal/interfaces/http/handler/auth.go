package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/easm/dashboard/internal/application/identity"
	"github.com/easm/dashboard/internal/domain/identity"
)

// AuthHandler handles sign-in, registration and the session endpoint
type AuthHandler struct {
	BaseHandler
	sessions *appidentity.SessionService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions *appidentity.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// SessionResponse is the session as seen by the front end
type SessionResponse struct {
	identity.Session
	// Redirect is the route the front end should show next
	Redirect string `json:"redirect,omitempty"`
}

func sessionResponse(s identity.Session) SessionResponse {
	resp := SessionResponse{Session: s}
	if s.State == identity.StateAnonymous {
		resp.Redirect = appidentity.LoginPath
	}
	return resp
}

// Login godoc
// @Summary      User login
// @Description  Authenticates with email and password and stores the session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.Credentials true "Login credentials"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessionResponse(session))
}

// Register godoc
// @Summary      Register account
// @Description  Creates a user and organization. The caller logs in afterwards.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.Registration true "Registration"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{
		"message":      resp.Message,
		"user":         resp.User,
		"organization": resp.Organization,
		"redirect":     appidentity.LoginPath,
	})
}

// Logout godoc
// @Summary      User logout
// @Description  Clears the stored session
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sessionResponse(h.sessions.Snapshot()))
}

// Session godoc
// @Summary      Get session
// @Description  Returns the current session. An unresolved session is resolved first.
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session := h.sessions.Snapshot()
	if session.State == identity.StateUnresolved {
		session = h.sessions.Resolve(c.Request.Context())
	}
	h.Success(c, sessionResponse(session))
}
