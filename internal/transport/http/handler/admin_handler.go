package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-tracker/internal/domain"
	resp "renewal-tracker/internal/transport/http/response"
)

type UserService interface {
	List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error)
	Create(ctx context.Context, name, email, password string, admin bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// AdminHandler serves the admin listener: account management plus the
// unscoped renewal views, all behind the admin role.
type AdminHandler struct {
	users    UserService
	renewals RenewalService
}

func NewAdminHandler(users UserService, renewals RenewalService) *AdminHandler {
	return &AdminHandler{users: users, renewals: renewals}
}

type userRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid query")
		return
	}
	users, total, err := h.users.List(c.Request.Context(), q.Offset, q.Limit, q.Q)
	if err != nil {
		writeError(c, err)
		return
	}
	items := make([]userRow, 0, len(users))
	for _, u := range users {
		items = append(items, userRow{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role()})
	}
	resp.OK(c, http.StatusOK, gin.H{"total": total, "items": items})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Admin    bool   `json:"admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.FailFields(c, http.StatusUnprocessableEntity, resp.MsgValidation,
			map[string]string{"body": "request body must be valid JSON"})
		return
	}
	u, err := h.users.Create(c.Request.Context(), req.Name, req.Email, req.Password, req.Admin)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusCreated, userRow{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role()})
}

// DeleteUser cascades to the user's renewals and tokens.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "User deleted successfully")
}

func (h *AdminHandler) ListRenewals(c *gin.Context) {
	rens, err := h.renewals.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, rens)
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	st, err := h.renewals.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, st)
}
