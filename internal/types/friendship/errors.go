package friendship

import "errors"

var (
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrCollaboratorUnavailable = errors.New("downstream directory unavailable")
	ErrUnknownStatus           = errors.New("unknown friendship status")

	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrRequestPending  = errors.New("friend request already pending")
	ErrRequestNotFound = errors.New("friend request not found")
)
