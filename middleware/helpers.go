package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gzcarena/arena/models"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRoles  = "roles"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context or invalid type")
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	// encoding/json decodes numeric claims as float64.
	userIDFloat, ok := userIDClaim.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for %q claim: expected number, got %T", jwtClaimUserID, userIDClaim)
	}
	if userIDFloat != float64(int(userIDFloat)) {
		return 0, fmt.Errorf("%q claim is not an integer: %f", jwtClaimUserID, userIDFloat)
	}

	userID := int(userIDFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in %q claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func GetUserRolesFromContext(ctx context.Context) ([]models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rolesClaim, ok := claims[jwtClaimRoles]
	if !ok {
		return nil, fmt.Errorf("missing %q claim in token", jwtClaimRoles)
	}

	rawRoles, ok := rolesClaim.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for %q claim: expected array, got %T", jwtClaimRoles, rolesClaim)
	}

	roles := make([]models.UserRole, 0, len(rawRoles))
	for _, raw := range rawRoles {
		roleStr, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("invalid role entry in %q claim: expected string, got %T", jwtClaimRoles, raw)
		}
		role := models.UserRole(roleStr)
		switch role {
		case models.RoleAdmin, models.RoleModerator, models.RoleUser:
			roles = append(roles, role)
		default:
			return nil, fmt.Errorf("invalid role value in claim: %q", roleStr)
		}
	}
	return roles, nil
}
