package users

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrPreferencesDisabled = errors.New("signup preferences can only be set by TI and CI users")
)

// DefaultPreferences are given to every new account
var DefaultPreferences = model.Positions{Lead: false, Desk: false, Assist: true}

// NewUser is the input for creating an account
type NewUser struct {
	Username string     `validate:"required,max=32"`
	Role     model.Role `validate:"required,oneof=JL TI CI Admin"`
	Password string     `validate:"required,min=4"`
	Phone    string     `validate:"omitempty,max=32"`
	Email    string     `validate:"omitempty,email"`
	// Preferences replaces DefaultPreferences when set
	Preferences *model.Positions `validate:"-"`
}

// AdminEdit holds admin changes to an account; nil fields are left unchanged
type AdminEdit struct {
	Role     *model.Role
	Phone    *string
	Email    *string
	Password *string
}

// ProfileEdit holds the changes a user may make to their own account
type ProfileEdit struct {
	Phone       *string
	Email       *string
	Preferences *model.Positions
}

// Directory is the in-memory set of studio accounts keyed by username.
// Usernames never change because the credit ledger is keyed by them.
type Directory struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	cost     int
	validate *validator.Validate
}

// Option configures a Directory
type Option func(*Directory)

// WithCost sets the bcrypt cost used for new password hashes
func WithCost(cost int) Option {
	return func(d *Directory) {
		d.cost = cost
	}
}

// New creates an empty directory
func New(opts ...Option) *Directory {
	d := &Directory{
		users:    make(map[string]*model.User),
		cost:     bcrypt.DefaultCost,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Create adds an account. Without explicit preferences the user only assists.
func (d *Directory) Create(input NewUser) (model.User, error) {
	if err := d.validate.Struct(input); err != nil {
		return model.User{}, fmt.Errorf("invalid user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), d.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[input.Username]; exists {
		return model.User{}, fmt.Errorf("%w: %s", ErrUserExists, input.Username)
	}

	prefs := DefaultPreferences
	if input.Preferences != nil {
		prefs = *input.Preferences
	}
	user := &model.User{
		Username:          input.Username,
		Role:              input.Role,
		Phone:             input.Phone,
		Email:             input.Email,
		PasswordHash:      hash,
		SignupPreferences: &prefs,
	}
	d.users[user.Username] = user

	return clone(user), nil
}

// Get returns a copy of an account
func (d *Directory) Get(username string) (model.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[username]
	if !ok {
		return model.User{}, false
	}
	return clone(user), true
}

// List returns every account, most senior role first, then by username
func (d *Directory) List() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]model.User, 0, len(d.users))
	for _, user := range d.users {
		list = append(list, clone(user))
	}
	SortByRank(list)
	return list
}

// SortByRank orders users most senior role first, then by username
func SortByRank(list []model.User) {
	slices.SortFunc(list, func(a, b model.User) int {
		if c := cmp.Compare(b.Role.Rank(), a.Role.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
}

// Delete removes an account. Credit history stays in the ledger.
func (d *Directory) Delete(username string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[username]; !ok {
		return false
	}
	delete(d.users, username)
	return true
}

// AdminUpdate changes role, contact details or password of an account
func (d *Directory) AdminUpdate(username string, edit AdminEdit) (model.User, error) {
	if edit.Role != nil && !edit.Role.IsValid() {
		return model.User{}, fmt.Errorf("invalid role %q", *edit.Role)
	}
	if err := d.validateContact(edit.Phone, edit.Email); err != nil {
		return model.User{}, err
	}

	var hash []byte
	if edit.Password != nil {
		if err := d.validate.Var(*edit.Password, "required,min=4"); err != nil {
			return model.User{}, fmt.Errorf("invalid password: %w", err)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*edit.Password), d.cost)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if edit.Role != nil {
		user.Role = *edit.Role
	}
	if edit.Phone != nil {
		user.Phone = *edit.Phone
	}
	if edit.Email != nil {
		user.Email = *edit.Email
	}
	if hash != nil {
		user.PasswordHash = hash
	}

	return clone(user), nil
}

// UpdateProfile applies a user's own edits. Only TI and CI users choose which
// positions they are willing to sign up for.
func (d *Directory) UpdateProfile(username string, edit ProfileEdit) (model.User, error) {
	if err := d.validateContact(edit.Phone, edit.Email); err != nil {
		return model.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[username]
	if !ok {
		return model.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	if edit.Preferences != nil && user.Role != model.RoleTI && user.Role != model.RoleCI {
		return model.User{}, ErrPreferencesDisabled
	}

	if edit.Phone != nil {
		user.Phone = *edit.Phone
	}
	if edit.Email != nil {
		user.Email = *edit.Email
	}
	if edit.Preferences != nil {
		prefs := *edit.Preferences
		user.SignupPreferences = &prefs
	}

	return clone(user), nil
}

// Authenticate checks a password against the stored hash
func (d *Directory) Authenticate(username, password string) (model.User, error) {
	d.mu.RLock()
	user, ok := d.users[username]
	var hash []byte
	if ok {
		hash = user.PasswordHash
	}
	d.mu.RUnlock()

	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}

	u, _ := d.Get(username)
	return u, nil
}

func (d *Directory) validateContact(phone, email *string) error {
	if phone != nil {
		if err := d.validate.Var(*phone, "omitempty,max=32"); err != nil {
			return fmt.Errorf("invalid phone: %w", err)
		}
	}
	if email != nil {
		if err := d.validate.Var(*email, "omitempty,email"); err != nil {
			return fmt.Errorf("invalid email: %w", err)
		}
	}
	return nil
}

func clone(u *model.User) model.User {
	c := *u
	c.PasswordHash = slices.Clone(u.PasswordHash)
	if u.SignupPreferences != nil {
		prefs := *u.SignupPreferences
		c.SignupPreferences = &prefs
	}
	return c
}
