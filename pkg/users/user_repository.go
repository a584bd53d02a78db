package users

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dayflow-app/dayflow-backend/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrEmailAlreadyExists is returned when a user with the same email is already registered
var ErrEmailAlreadyExists = errors.New("a user with this email already exists")

// UserRepositoryInterface is the interface for a UserRepository
type UserRepositoryInterface interface {
	Add(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Remove(ctx context.Context, id string) error
}

// UserRepository does everything related to user storing
type UserRepository struct {
	DB     *redis.Client
	Logger logger.Interface
}

// storedUser re-attaches the password hash, which the public JSON form hides
type storedUser struct {
	*User
	Password string `json:"password"`
}

func userKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func emailKey(email string) string {
	return fmt.Sprintf("user:email:%s", email)
}

func (s UserRepository) persist(ctx context.Context, user *User) error {
	binary, err := json.Marshal(storedUser{User: user, Password: user.Password})
	if err != nil {
		return err
	}

	return s.DB.Set(ctx, userKey(user.ID), binary, 0).Err()
}

// Add adds a user and claims its email
func (s UserRepository) Add(ctx context.Context, user *User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.LastModifiedAt = time.Now()

	claimed, err := s.DB.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return err
	}

	if !claimed {
		return ErrEmailAlreadyExists
	}

	return s.persist(ctx, user)
}

// FindByID finds a user by ID
func (s UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	binary, err := s.DB.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return nil, errors.Wrapf(err, "could not find user %s", id)
	}

	stored := storedUser{User: &User{}}
	if err := json.Unmarshal(binary, &stored); err != nil {
		return nil, err
	}

	stored.User.Password = stored.Password
	return stored.User, nil
}

// FindByEmail finds a user by email
func (s UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, err := s.DB.Get(ctx, emailKey(email)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "could not find user with email %s", email)
	}

	return s.FindByID(ctx, id)
}

// Update updates a user
func (s UserRepository) Update(ctx context.Context, user *User) error {
	user.LastModifiedAt = time.Now()
	return s.persist(ctx, user)
}

// Remove deletes a user and frees its email
func (s UserRepository) Remove(ctx context.Context, id string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	return s.DB.Del(ctx, userKey(id), emailKey(user.Email)).Err()
}
