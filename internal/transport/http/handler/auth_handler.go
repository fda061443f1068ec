package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-tracker/internal/service"
	mdw "renewal-tracker/internal/transport/http/middleware"
	resp "renewal-tracker/internal/transport/http/response"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, userID string) error
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// loginResponse is the one endpoint whose body deviates from the envelope:
// token and user_type ride at the top level.
type loginResponse struct {
	Status   string      `json:"status"`
	UserType string      `json:"user_type"`
	Token    string      `json:"token"`
	User     userSummary `json:"user"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailFields(c, http.StatusUnprocessableEntity, resp.MsgValidation,
			map[string]string{"body": "request body must be valid JSON"})
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Status:   resp.StatusSuccess,
		UserType: res.User.Role(),
		Token:    res.Token,
		User:     userSummary{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	u := mdw.CurrentUser(c)
	if err := h.auth.Logout(c.Request.Context(), u.ID); err != nil {
		writeError(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Profile(c *gin.Context) {
	u := mdw.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
			"role":  u.Role(),
		},
	})
}
