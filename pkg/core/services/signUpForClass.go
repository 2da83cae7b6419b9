package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// SignUpResult describes a completed signup
type SignUpResult struct {
	Occurrence *model.ClassOccurrence
	Position   model.Position
	Entry      model.CreditEntry
	// Previous is the position the user moved out of, if Moved
	Previous        model.Position
	Moved           bool
	ReversedCredits int
}

// SignUpForClass signs a user up for a position in a class and records the credit.
// Junior leaders always assist. Only admins and CIs may sign up for past classes.
// Moving to another position reverses the credit of the previous one.
func SignUpForClass(
	r ClassRoster,
	l CreditLedger,
	user model.User,
	occurrenceID string,
	pos model.Position,
	now time.Time,
	logger *zap.Logger,
) (*SignUpResult, error) {
	logger.Debug("Starting signUpForClass",
		zap.String("username", user.Username),
		zap.String("occurrence_id", occurrenceID),
		zap.String("position", string(pos)))

	if !pos.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrPositionUnavailable, pos)
	}

	occ, err := presentOccurrence(r, occurrenceID)
	if err != nil {
		return nil, err
	}

	date, dateStr, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return nil, err
	}
	if isPast(r, date, now) && !canChangePast(user.Role) {
		return nil, fmt.Errorf("%w: %s", ErrPastClass, dateStr)
	}

	pos = effectivePosition(user.Role, pos)

	current, signedUp := occ.PositionOf(user.Username)
	if signedUp && current == pos {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySignedUp, pos)
	}
	if !occ.AvailablePositions.Get(pos) {
		return nil, fmt.Errorf("%w: %s", ErrPositionUnavailable, pos)
	}
	if user.Role != model.RoleAdmin && !user.Prefers(pos) {
		return nil, fmt.Errorf("%w: %s", ErrPositionNotPreferred, pos)
	}

	return placeUser(r, l, user.Username, user.Role, occ, dateStr, pos, logger)
}

// placeUser moves a user into a position, reversing any credit for their previous
// position before recording the new one
func placeUser(
	r ClassRoster,
	l CreditLedger,
	username string,
	role model.Role,
	occ *model.ClassOccurrence,
	date string,
	pos model.Position,
	logger *zap.Logger,
) (*SignUpResult, error) {
	result := &SignUpResult{Position: pos}

	if prev, ok := occ.PositionOf(username); ok {
		result.ReversedCredits = l.RemoveCredit(username, *occ, date)
		logger.Debug("Reversed credit for previous position",
			zap.String("username", username),
			zap.String("previous", string(prev)),
			zap.Int("removed", result.ReversedCredits))
	}

	placed, ok := r.SignUp(occ.ID, username, role, pos)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, occ.ID)
	}
	result.Occurrence = placed.Occurrence
	result.Moved = placed.Moved
	result.Previous = placed.Previous
	result.Entry = l.AddCredit(username, *placed.Occurrence, date, pos, role)

	logger.Info("Signed up for class",
		zap.String("username", username),
		zap.String("occurrence_id", occ.ID),
		zap.String("date", date),
		zap.String("position", string(pos)),
		zap.Int("credits", result.Entry.Credits))

	return result, nil
}

// WithdrawFromClass removes a user from a class and reverses their credit
func WithdrawFromClass(
	r ClassRoster,
	l CreditLedger,
	user model.User,
	occurrenceID string,
	now time.Time,
	logger *zap.Logger,
) (model.Position, error) {
	logger.Debug("Starting withdrawFromClass",
		zap.String("username", user.Username),
		zap.String("occurrence_id", occurrenceID))

	occ, err := presentOccurrence(r, occurrenceID)
	if err != nil {
		return "", err
	}

	date, dateStr, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return "", err
	}
	if isPast(r, date, now) && !canChangePast(user.Role) {
		return "", fmt.Errorf("%w: %s", ErrPastClass, dateStr)
	}

	return removeUser(r, l, user.Username, occ, dateStr, logger)
}

func removeUser(
	r ClassRoster,
	l CreditLedger,
	username string,
	occ *model.ClassOccurrence,
	date string,
	logger *zap.Logger,
) (model.Position, error) {
	pos, ok := r.Withdraw(occ.ID, username)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotSignedUp, occ.ID)
	}
	removed := l.RemoveCredit(username, *occ, date)

	logger.Info("Withdrew from class",
		zap.String("username", username),
		zap.String("occurrence_id", occ.ID),
		zap.String("position", string(pos)),
		zap.Int("credits_removed", removed))

	return pos, nil
}
