package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every JSON endpoint.
	APIPath = "/api"

	// LocalUID is the fiber.Locals key of the signed in uid.
	LocalUID = "uid"

	// PendingJoinCookie keeps the join code of an invite link until the visitor has signed in.
	PendingJoinCookie = "pending_join_code"

	// ErrNilACDFatalLogMsg is used if router or deps var pointer is nil.
	ErrNilACDFatalLogMsg = "router or deps is nil"
)
