package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/shift-manager/workforce/internal/domain"
)

// AuthClaims 的 Subject 是员工 ID
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) currentEmployeeID(r *http.Request) (int64, error) {
	sub := r.Context().Value(SubCtxKey).(string)
	return strconv.ParseInt(sub, 10, 64)
}

func (h *Handler) isOwner(r *http.Request) bool {
	role, _ := r.Context().Value(RoleCtxKey).(string)
	return domain.Role(role) == domain.RoleOwner
}
