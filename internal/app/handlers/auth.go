package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/session"
	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/state"
)

// AuthHandlers serves the login/register pages and their form actions.
type AuthHandlers struct {
	sessions *session.Manager
	logger   *zap.Logger
}

func NewAuthHandlers(sessions *session.Manager, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{sessions: sessions, logger: logger}
}

func (h *AuthHandlers) LoginPage(c *gin.Context) {
	respondPage(c, "login", gin.H{
		"from": c.Query("from"),
	})
}

func (h *AuthHandlers) RegisterPage(c *gin.Context) {
	respondPage(c, "register", nil)
}

type loginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	From     string `json:"from"`
}

// Login dispatches the login operation and, on success, returns the
// original location the guard preserved (or the home page).
func (h *AuthHandlers) Login(c *gin.Context) {
	entry := session.FromContext(c)
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if err := entry.Store.Auth.Login(c.Request.Context(), form.Email, form.Password); err != nil {
		// A failed login is a banner on the login page, never a circuit
		// break: there is no session to reset yet.
		c.JSON(http.StatusUnauthorized, gin.H{"error": entry.Store.Auth.Err(state.OpLogin)})
		return
	}

	target := form.From
	if target == "" {
		target = "/"
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     entry.Store.Auth.User(),
		"redirect": target,
	})
}

type registerForm struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandlers) Register(c *gin.Context) {
	entry := session.FromContext(c)
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	input := state.RegisterInput{Name: form.Name, Email: form.Email, Password: form.Password}
	if err := entry.Store.Auth.Register(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": entry.Store.Auth.Err(state.OpRegister)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     entry.Store.Auth.User(),
		"redirect": "/",
	})
}

// Logout always clears the local session; a server-side failure is logged
// inside the slice and never blocks the user from leaving.
func (h *AuthHandlers) Logout(c *gin.Context) {
	entry := session.FromContext(c)
	_ = entry.Store.Auth.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}
