package model

import "strings"

type Role string

const (
	RoleJL    Role = "JL"
	RoleTI    Role = "TI"
	RoleCI    Role = "CI"
	RoleAdmin Role = "Admin"
)

func (r Role) IsValid() bool {
	return r == RoleJL || r == RoleTI || r == RoleCI || r == RoleAdmin
}

// Rank orders roles from junior to senior (JL < TI < CI < Admin)
func (r Role) Rank() int {
	switch r {
	case RoleJL:
		return 0
	case RoleTI:
		return 1
	case RoleCI:
		return 2
	case RoleAdmin:
		return 3
	default:
		return -1
	}
}

// ParseRole matches a role name case-insensitively
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{RoleJL, RoleTI, RoleCI, RoleAdmin} {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

type Position string

const (
	PositionLead   Position = "lead"
	PositionDesk   Position = "desk"
	PositionAssist Position = "assist"
)

// AllPositions lists positions in display order
var AllPositions = []Position{PositionLead, PositionDesk, PositionAssist}

func (p Position) IsValid() bool {
	return p == PositionLead || p == PositionDesk || p == PositionAssist
}

// ParsePosition matches a position name case-insensitively
func ParsePosition(s string) (Position, bool) {
	for _, p := range AllPositions {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// Positions is a flag per position, used both for availability and for signup preferences
type Positions struct {
	Lead   bool `yaml:"lead" json:"lead"`
	Desk   bool `yaml:"desk" json:"desk"`
	Assist bool `yaml:"assist" json:"assist"`
}

// Get returns the flag for a position (false for unknown positions)
func (p Positions) Get(pos Position) bool {
	switch pos {
	case PositionLead:
		return p.Lead
	case PositionDesk:
		return p.Desk
	case PositionAssist:
		return p.Assist
	}
	return false
}

// Set updates the flag for a position, ignoring unknown positions
func (p *Positions) Set(pos Position, v bool) {
	switch pos {
	case PositionLead:
		p.Lead = v
	case PositionDesk:
		p.Desk = v
	case PositionAssist:
		p.Assist = v
	}
}

// User represents a studio member account
type User struct {
	Username          string
	Role              Role
	Phone             string
	Email             string
	PasswordHash      []byte
	SignupPreferences *Positions // nil means no preference recorded
}

// Prefers reports whether the user has opted into signing up for a position.
// Users without recorded preferences accept every position.
func (u User) Prefers(pos Position) bool {
	if u.SignupPreferences == nil {
		return true
	}
	return u.SignupPreferences.Get(pos)
}

// ClassTemplate is one recurring weekly class. Times are quarter-hour indexes.
type ClassTemplate struct {
	StartTime  int
	EndTime    int
	Type       string
	Subvariant string // Empty string if no variant
	Color      string
}

// SignUp is a user's membership in one position of an occurrence
type SignUp struct {
	Username string
	Role     Role
	Position Position
}

// ClassOccurrence is a concrete, date-bound instance of a ClassTemplate
type ClassOccurrence struct {
	ID string
	ClassTemplate

	Lead   []SignUp
	Desk   []SignUp
	Assist []SignUp

	// AvailablePositions is derived from Defaults, Overrides and occupancy
	AvailablePositions Positions

	// Defaults come from the position policy for the class type
	Defaults Positions

	// Overrides are admin decisions that force a position open or closed
	Overrides map[Position]bool
}

// SignUps returns the signups held in a position
func (o *ClassOccurrence) SignUps(pos Position) []SignUp {
	switch pos {
	case PositionLead:
		return o.Lead
	case PositionDesk:
		return o.Desk
	case PositionAssist:
		return o.Assist
	}
	return nil
}

// SetSignUps replaces the signups held in a position
func (o *ClassOccurrence) SetSignUps(pos Position, signUps []SignUp) {
	switch pos {
	case PositionLead:
		o.Lead = signUps
	case PositionDesk:
		o.Desk = signUps
	case PositionAssist:
		o.Assist = signUps
	}
}

// AllSignUps returns every signup in position display order
func (o *ClassOccurrence) AllSignUps() []SignUp {
	all := make([]SignUp, 0, len(o.Lead)+len(o.Desk)+len(o.Assist))
	all = append(all, o.Lead...)
	all = append(all, o.Desk...)
	all = append(all, o.Assist...)
	return all
}

// PositionOf returns the position a user holds in this occurrence
func (o *ClassOccurrence) PositionOf(username string) (Position, bool) {
	for _, pos := range AllPositions {
		for _, s := range o.SignUps(pos) {
			if s.Username == username {
				return pos, true
			}
		}
	}
	return "", false
}

// Clone returns a deep copy safe to hand to callers
func (o *ClassOccurrence) Clone() *ClassOccurrence {
	if o == nil {
		return nil
	}
	c := *o
	c.Lead = append([]SignUp(nil), o.Lead...)
	c.Desk = append([]SignUp(nil), o.Desk...)
	c.Assist = append([]SignUp(nil), o.Assist...)
	if o.Overrides != nil {
		c.Overrides = make(map[Position]bool, len(o.Overrides))
		for k, v := range o.Overrides {
			c.Overrides[k] = v
		}
	}
	return &c
}

// CreditEntry records one attendance credit for a user
type CreditEntry struct {
	ID           string
	OccurrenceID string
	Username     string
	Role         Role
	ClassType    string
	ClassVariant string
	Date         string // 2006-01-02
	StartTime    int
	EndTime      int
	Position     Position
	Credits      int
	IsDeskCredit bool
}

type EventColor string

const (
	EventRed    EventColor = "red"
	EventBlue   EventColor = "blue"
	EventGreen  EventColor = "green"
	EventYellow EventColor = "yellow"
	EventPurple EventColor = "purple"
	EventOrange EventColor = "orange"
)

func (c EventColor) IsValid() bool {
	switch c {
	case EventRed, EventBlue, EventGreen, EventYellow, EventPurple, EventOrange:
		return true
	}
	return false
}

// EventTypes lists the event kinds offered when creating a day event
var EventTypes = []string{"Holiday", "Special Class", "Tournament", "Seminar", "Promotion", "Custom"}

// EventTypeCustom uses CustomText as its banner label
const EventTypeCustom = "Custom"

// Event is a banner attached to a single calendar date
type Event struct {
	ID          string
	Date        string // 2006-01-02
	Color       EventColor
	Type        string
	CustomText  string
	Description string
}

// Label returns the banner text for the event
func (e Event) Label() string {
	if e.Type == EventTypeCustom {
		return e.CustomText
	}
	return e.Type
}
