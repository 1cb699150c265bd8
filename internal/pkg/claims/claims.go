package claims

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
)

// Claims is the identity the gateway put into the access token. The core
// trusts it as-is; there is no local user store.
type Claims struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

// FromContext extracts and checks the token claims placed by the jwtauth
// verifier middleware.
func FromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := raw["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, ok := raw["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	roleStr, ok := raw["role"].(string)
	if !ok || roleStr == "" {
		return Claims{}, fmt.Errorf("role claim is missing or invalid")
	}

	c := Claims{
		UserID:    userID,
		CompanyID: companyID,
		Role:      user.Role(roleStr),
	}

	// employee_id is absent for admin-only accounts.
	if employeeID, ok := raw["employee_id"].(string); ok {
		c.EmployeeID = employeeID
	}

	return c, nil
}

// RequireEmployee returns the claims only when they identify an employee.
func RequireEmployee(ctx context.Context) (Claims, error) {
	c, err := FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	if c.EmployeeID == "" {
		return Claims{}, fmt.Errorf("employee_id claim is missing or invalid")
	}
	return c, nil
}
