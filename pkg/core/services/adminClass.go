package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
)

// PositionSetting is an admin choice for one position of a class
type PositionSetting string

const (
	PositionOpen    PositionSetting = "open"
	PositionClosed  PositionSetting = "closed"
	PositionDefault PositionSetting = "default"
)

// ParsePositionSetting matches open, closed or default
func ParsePositionSetting(s string) (PositionSetting, bool) {
	switch PositionSetting(s) {
	case PositionOpen, PositionClosed, PositionDefault:
		return PositionSetting(s), true
	}
	return "", false
}

// AdminAddToClass places any user in a position of any class, past or future.
// The position must still be available and junior leaders still assist.
func AdminAddToClass(
	r ClassRoster,
	l CreditLedger,
	users UserDirectory,
	actor model.User,
	occurrenceID string,
	username string,
	pos model.Position,
	logger *zap.Logger,
) (*SignUpResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !pos.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrPositionUnavailable, pos)
	}

	target, ok := users.Get(username)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	occ, err := presentOccurrence(r, occurrenceID)
	if err != nil {
		return nil, err
	}
	_, date, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return nil, err
	}

	pos = effectivePosition(target.Role, pos)
	if current, ok := occ.PositionOf(username); ok && current == pos {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySignedUp, pos)
	}
	if !occ.AvailablePositions.Get(pos) {
		return nil, fmt.Errorf("%w: %s", ErrPositionUnavailable, pos)
	}

	logger.Debug("Admin adding user to class",
		zap.String("admin", actor.Username),
		zap.String("username", username),
		zap.String("occurrence_id", occurrenceID))

	return placeUser(r, l, target.Username, target.Role, occ, date, pos, logger)
}

// AdminRemoveFromClass removes any user from a class and reverses their credit
func AdminRemoveFromClass(
	r ClassRoster,
	l CreditLedger,
	actor model.User,
	occurrenceID string,
	username string,
	logger *zap.Logger,
) (model.Position, error) {
	if err := requireAdmin(actor); err != nil {
		return "", err
	}

	occ, err := presentOccurrence(r, occurrenceID)
	if err != nil {
		return "", err
	}
	_, date, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return "", err
	}

	logger.Debug("Admin removing user from class",
		zap.String("admin", actor.Username),
		zap.String("username", username),
		zap.String("occurrence_id", occurrenceID))

	return removeUser(r, l, username, occ, date, logger)
}

// AdminDeleteClass deletes a class occurrence and reverses the credits of everyone
// signed up to it. Deleted classes stay hidden from non-admins until restored.
func AdminDeleteClass(
	r ClassRoster,
	l CreditLedger,
	actor model.User,
	occurrenceID string,
	logger *zap.Logger,
) ([]model.SignUp, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	_, date, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return nil, err
	}

	occ, ok := r.Delete(occurrenceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, occurrenceID)
	}

	signUps := occ.AllSignUps()
	reversed := make(map[string]bool, len(signUps))
	for _, s := range signUps {
		if reversed[s.Username] {
			continue
		}
		reversed[s.Username] = true
		removed := l.RemoveCredit(s.Username, *occ, date)
		logger.Debug("Reversed credit for deleted class",
			zap.String("username", s.Username),
			zap.Int("removed", removed))
	}

	logger.Info("Deleted class",
		zap.String("admin", actor.Username),
		zap.String("occurrence_id", occurrenceID),
		zap.String("type", occ.Type),
		zap.Int("signups_removed", len(signUps)))

	return signUps, nil
}

// AdminRestoreClass brings a deleted class back from its template, empty
func AdminRestoreClass(
	r ClassRoster,
	actor model.User,
	occurrenceID string,
	logger *zap.Logger,
) (*model.ClassOccurrence, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	occ, ok := r.Restore(occurrenceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not deleted", ErrUnknownClass, occurrenceID)
	}

	logger.Info("Restored class",
		zap.String("admin", actor.Username),
		zap.String("occurrence_id", occurrenceID))

	return occ, nil
}

// AdminEditClass edits a class occurrence. When the class type or times change,
// every signup's credit is re-recorded against the edited class.
func AdminEditClass(
	r ClassRoster,
	l CreditLedger,
	actor model.User,
	occurrenceID string,
	edit roster.ClassEdit,
	logger *zap.Logger,
) (*model.ClassOccurrence, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	_, date, err := occurrenceDate(r, occurrenceID)
	if err != nil {
		return nil, err
	}

	before, after, err := r.Update(occurrenceID, edit)
	if err != nil {
		return nil, fmt.Errorf("failed to edit class %s: %w", occurrenceID, err)
	}

	if creditKeyChanged(before, after) {
		for _, s := range after.AllSignUps() {
			removed := l.RemoveCredit(s.Username, *before, date)
			if removed == 0 {
				continue
			}
			l.AddCredit(s.Username, *after, date, s.Position, s.Role)
			logger.Debug("Re-recorded credit for edited class",
				zap.String("username", s.Username),
				zap.Int("removed", removed))
		}
	}

	logger.Info("Edited class",
		zap.String("admin", actor.Username),
		zap.String("occurrence_id", occurrenceID),
		zap.String("type", after.Type),
		zap.Int("start", after.StartTime),
		zap.Int("end", after.EndTime))

	return after, nil
}

// creditKeyChanged reports whether an edit touched the fields credit reversal matches on
func creditKeyChanged(before, after *model.ClassOccurrence) bool {
	return before.Type != after.Type ||
		before.StartTime != after.StartTime ||
		before.EndTime != after.EndTime ||
		before.Subvariant != after.Subvariant
}

// AdminSetPosition forces a position of a class open or closed, or returns it to
// its default behaviour
func AdminSetPosition(
	r ClassRoster,
	actor model.User,
	occurrenceID string,
	pos model.Position,
	setting PositionSetting,
	logger *zap.Logger,
) (*model.ClassOccurrence, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !pos.IsValid() {
		return nil, fmt.Errorf("invalid position %q", pos)
	}

	var ok bool
	switch setting {
	case PositionOpen:
		ok = r.SetOverride(occurrenceID, pos, true)
	case PositionClosed:
		ok = r.SetOverride(occurrenceID, pos, false)
	case PositionDefault:
		ok = r.ClearOverride(occurrenceID, pos)
	default:
		return nil, fmt.Errorf("invalid position setting %q", setting)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, occurrenceID)
	}

	logger.Info("Set class position",
		zap.String("admin", actor.Username),
		zap.String("occurrence_id", occurrenceID),
		zap.String("position", string(pos)),
		zap.String("setting", string(setting)))

	return presentOccurrence(r, occurrenceID)
}

// AdminRemoveCreditEntry deletes a single ledger entry by id
func AdminRemoveCreditEntry(
	l CreditLedger,
	actor model.User,
	username string,
	entryID string,
	logger *zap.Logger,
) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !l.RemoveEntry(username, entryID) {
		return fmt.Errorf("no credit entry %s for %s", entryID, username)
	}

	logger.Info("Removed credit entry",
		zap.String("admin", actor.Username),
		zap.String("username", username),
		zap.String("entry_id", entryID))

	return nil
}
