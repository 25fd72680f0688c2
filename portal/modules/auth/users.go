package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/agridesk/consentd/portal/modules/state"
)

const usersKeyPrefix = "users"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore keeps portal users with bcrypt-hashed passwords.
type UserStore struct {
	state state.State
}

func NewUserStore(st state.State) *UserStore {
	return &UserStore{state: st}
}

func (s *UserStore) Create(email, password, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	key := state.MakeCompositeKey(usersKeyPrefix, email)
	existing, err := s.state.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	bz, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.state.Set(key, bz); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}

// Authenticate checks the credentials and returns the stored user.
func (s *UserStore) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	bz, err := s.state.Get(state.MakeCompositeKey(usersKeyPrefix, email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bz == nil {
		return nil, ErrInvalidCredentials
	}

	var user User
	if err := json.Unmarshal(bz, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
