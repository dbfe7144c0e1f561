package handlers

import (
	"errors"
	"net/http"

	"github.com/gzcarena/arena/models"
	"github.com/gzcarena/arena/services"
)

type AdminHandler struct {
	roleService services.RoleService
}

func NewAdminHandler(roleService services.RoleService) *AdminHandler {
	return &AdminHandler{roleService: roleService}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, err := h.roleService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Role == "" {
		badRequestResponse(w, r, errors.New("role is required"))
		return
	}

	if err := h.roleService.Grant(r.Context(), userID, models.UserRole(input.Role)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := urlParamInt(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Role == "" {
		badRequestResponse(w, r, errors.New("role is required"))
		return
	}

	if err := h.roleService.Revoke(r.Context(), userID, models.UserRole(input.Role)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
