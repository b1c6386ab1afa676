package service

import "workin/internal/domain"

// IsOwnerOrAdmin decide si el usuario puede mutar un recurso cuyo dueño es la
// empresa indicada: admins siempre, usuarios de empresa solo sobre la propia.
func IsOwnerOrAdmin(user domain.User, ownerCompanyID int64) bool {
	if user.IsAdmin() {
		return true
	}
	return user.CompanyID != nil && *user.CompanyID == ownerCompanyID
}

// HasRole indica si el rol del usuario está dentro del conjunto permitido.
func HasRole(user domain.User, allowed ...string) bool {
	for _, role := range allowed {
		if user.Role == role {
			return true
		}
	}
	return false
}
