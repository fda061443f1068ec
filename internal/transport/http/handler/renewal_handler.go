package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"renewal-tracker/internal/domain"
	"renewal-tracker/internal/service"
	mdw "renewal-tracker/internal/transport/http/middleware"
	resp "renewal-tracker/internal/transport/http/response"
)

type RenewalService interface {
	Create(ctx context.Context, ownerID string, in *service.RenewalInput) (*domain.Renewal, error)
	Get(ctx context.Context, id string) (*domain.Renewal, error)
	List(ctx context.Context) ([]domain.Renewal, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Renewal, error)
	Update(ctx context.Context, id string, in *service.RenewalInput) (*domain.Renewal, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*domain.Statistics, error)
	ByStatus(ctx context.Context, status string) ([]domain.Renewal, error)
}

type RenewalHandler struct {
	renewals RenewalService
}

func NewRenewalHandler(renewals RenewalService) *RenewalHandler {
	return &RenewalHandler{renewals: renewals}
}

func (h *RenewalHandler) Create(c *gin.Context) {
	var in service.RenewalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.FailFields(c, http.StatusUnprocessableEntity, resp.MsgValidation,
			map[string]string{"body": "request body must be valid JSON"})
		return
	}
	owner := mdw.CurrentUser(c)
	ren, err := h.renewals.Create(c.Request.Context(), owner.ID, &in)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusCreated, ren)
}

func (h *RenewalHandler) Get(c *gin.Context) {
	ren, err := h.renewals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, ren)
}

// List returns every renewal, not just the caller's. Per-owner listing
// lives on /renewals/user.
func (h *RenewalHandler) List(c *gin.Context) {
	rens, err := h.renewals.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, rens)
}

func (h *RenewalHandler) ListOwn(c *gin.Context) {
	u := mdw.CurrentUser(c)
	rens, err := h.renewals.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, rens)
}

func (h *RenewalHandler) Update(c *gin.Context) {
	var in service.RenewalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.FailFields(c, http.StatusUnprocessableEntity, resp.MsgValidation,
			map[string]string{"body": "request body must be valid JSON"})
		return
	}
	ren, err := h.renewals.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, ren)
}

func (h *RenewalHandler) Delete(c *gin.Context) {
	if err := h.renewals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Renewal deleted successfully")
}

func (h *RenewalHandler) Statistics(c *gin.Context) {
	st, err := h.renewals.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, st)
}

func (h *RenewalHandler) ByStatus(c *gin.Context) {
	rens, err := h.renewals.ByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp.OK(c, http.StatusOK, rens)
}
