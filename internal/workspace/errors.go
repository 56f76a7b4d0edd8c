package workspace

import (
	"errors"
	"fmt"
)

// Error kinds. Every error below wraps exactly one of them, callers map kinds
// to responses with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// Error is a user facing failure of a given kind.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Error returns the message shown to the user.
func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the kind.
func (e *Error) Unwrap() error {
	return e.kind
}

var (
	// ErrProfileNotFound is returned when no profile exists for a uid.
	ErrProfileNotFound = newError(ErrNotFound, "profile not found")

	// ErrGroupNotFound is returned for unknown group ids.
	ErrGroupNotFound = newError(ErrNotFound, "group not found")

	// ErrInvalidJoinCode is returned for malformed join codes, before any lookup.
	ErrInvalidJoinCode = newError(ErrInvalidInput, "join code must be 6 letters or digits")

	// ErrJoinCodeNotFound is returned when a well formed code matches no group.
	ErrJoinCodeNotFound = newError(ErrNotFound, "invalid join code")

	// ErrJoinCodeExhausted is returned when no unused join code was found within the configured attempts.
	ErrJoinCodeExhausted = errors.New("could not allocate a unique join code")

	// ErrInvalidGroupName is returned for empty or overlong group names.
	ErrInvalidGroupName = newError(ErrInvalidInput, "group name must be 1 to 100 characters")

	// ErrAlreadyInGroup is returned when a user that already belongs to a group creates or joins one.
	ErrAlreadyInGroup = newError(ErrConflict, "you already belong to a group")

	// ErrNotInGroup is returned when a user without a group asks for group data.
	ErrNotInGroup = newError(ErrNotFound, "you do not belong to a group yet")

	// ErrNotMember is returned when the acting user is not a member of the addressed group.
	ErrNotMember = newError(ErrForbidden, "you are not a member of this group")

	// ErrNotAdmin is returned when a member tries an admin only operation.
	ErrNotAdmin = newError(ErrForbidden, "only group admins can do this")

	// ErrMemberNotFound is returned when the target of a member operation is not in the group.
	ErrMemberNotFound = newError(ErrNotFound, "member not found")

	// ErrInvalidRole is returned for roles other than admin and member.
	ErrInvalidRole = newError(ErrInvalidInput, "role must be admin or member")

	// ErrProjectNotFound is returned for unknown projects.
	ErrProjectNotFound = newError(ErrNotFound, "project not found")

	// ErrTaskNotFound is returned for unknown tasks.
	ErrTaskNotFound = newError(ErrNotFound, "task not found")

	// ErrDocumentNotFound is returned for unknown or already deleted documents.
	ErrDocumentNotFound = newError(ErrNotFound, "document not found")

	// ErrEmptyName is returned when a required name or title is blank.
	ErrEmptyName = newError(ErrInvalidInput, "name is required")

	// ErrInvalidStatus is returned for statuses outside the closed set.
	ErrInvalidStatus = newError(ErrInvalidInput, "invalid status")

	// ErrInvalidPriority is returned for priorities other than High, Medium and Low.
	ErrInvalidPriority = newError(ErrInvalidInput, "invalid priority")

	// ErrAssigneeNotMember is returned when a task is assigned to someone outside the group.
	ErrAssigneeNotMember = newError(ErrInvalidInput, "assignee is not a member of this group")

	// ErrFileTooLarge is returned for uploads above the configured limit.
	ErrFileTooLarge = newError(ErrInvalidInput, "file is too large")

	// ErrNotUploader is returned when a member other than the uploader or an admin deletes a document.
	ErrNotUploader = newError(ErrForbidden, "only the uploader or an admin can delete this document")
)

// LastAdminError is returned when an operation would leave a group without an admin.
type LastAdminError struct {
	GroupID string
	UID     string
	// Action is "demote" or "remove".
	Action string
}

// Error implements error.
func (e *LastAdminError) Error() string {
	return fmt.Sprintf("cannot %s the last admin of the group", e.Action)
}

// Unwrap makes LastAdminError a conflict.
func (e *LastAdminError) Unwrap() error {
	return ErrConflict
}
