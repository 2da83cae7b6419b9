package services

import "errors"

var (
	ErrPastClass            = errors.New("only admins and CIs can change past classes")
	ErrPositionUnavailable  = errors.New("position is not available")
	ErrPositionNotPreferred = errors.New("position is disabled in your signup preferences")
	ErrUnknownUser          = errors.New("unknown user")
	ErrUnknownClass         = errors.New("unknown class")
	ErrNotAdmin             = errors.New("admin access required")
	ErrAlreadySignedUp      = errors.New("already signed up for this position")
	ErrNotSignedUp          = errors.New("not signed up for this class")
)
