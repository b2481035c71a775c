package db

// UsageEvent is one use of the copy grader by an identified visitor
type UsageEvent struct {
	Email     string
	SessionID string
	UserAgent string
	IPAddress string
}

// UserTypeGuest is recorded for visitors without an account
const UserTypeGuest = "guest"
