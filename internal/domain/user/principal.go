package user

// Principal is the authenticated actor attached to a request by the
// authorization middleware.
type Principal struct {
	UserID      string
	DisplayName string
	Roles       []string
}

const (
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// CanReview reports whether the actor may approve or reject pending
// submissions.
func (p Principal) CanReview() bool {
	return p.HasRole(RoleReviewer) || p.HasRole(RoleAdmin)
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
