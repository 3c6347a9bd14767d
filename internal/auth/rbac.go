package auth

import (
	"fmt"
	"strings"

	"paintgate/internal/apperr"
	"paintgate/internal/models"
)

// RequireRoles passes the user through when their role set intersects the
// allowed set. The forbidden outcome names both sets: identity is already
// established here, so disclosure is acceptable (unlike authentication
// failures).
func RequireRoles(u *models.User, allowed ...string) (*models.User, error) {
	for _, r := range u.Roles {
		for _, a := range allowed {
			if r == a {
				return u, nil
			}
		}
	}
	return nil, apperr.Authorization(fmt.Sprintf(
		"access denied: requires one of [%s], user has [%s]",
		strings.Join(allowed, ", "), strings.Join(u.Roles, ", ")))
}
