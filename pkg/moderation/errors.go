package moderation

import "errors"

// Input and target errors. The command dispatcher maps these to user replies.
var (
	ErrMissingTarget   = errors.New("no target member given")
	ErrSelfAction      = errors.New("actor and target are the same member")
	ErrTargetIsBot     = errors.New("target is the bot itself")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrUnknownAction   = errors.New("unknown action kind")
)

// State errors
var (
	ErrNoWarnings     = errors.New("member has no warnings")
	ErrNotMuted       = errors.New("member is not muted")
	ErrRoleNotFound   = errors.New("restriction role not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrConflict       = errors.New("record changed concurrently")
)
