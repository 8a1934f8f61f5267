package types

// Role is the account role of a user.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleRecruiter Role = "RECRUITER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "APPLIED"
	StatusReviewed     ApplicationStatus = "REVIEWED"
	StatusInterviewing ApplicationStatus = "INTERVIEWING"
	StatusOffered      ApplicationStatus = "OFFERED"
	StatusRejected     ApplicationStatus = "REJECTED"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusInterviewing, StatusOffered, StatusRejected:
		return true
	}
	return false
}
