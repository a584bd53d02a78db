package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type MockUserRepository struct {
	Users []*User
}

func (r *MockUserRepository) Add(ctx context.Context, user *User) error {
	for _, present := range r.Users {
		if present.Email == user.Email {
			return ErrEmailAlreadyExists
		}
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.LastModifiedAt = time.Now()

	r.Users = append(r.Users, user)
	return nil
}

func (r *MockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	for _, user := range r.Users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

func (r *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.Users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

func (r *MockUserRepository) Update(ctx context.Context, user *User) error {
	for index, present := range r.Users {
		if present.ID == user.ID {
			r.Users[index] = user
			return nil
		}
	}

	return errors.New("user not found")
}

func (r *MockUserRepository) Remove(ctx context.Context, id string) error {
	for index, user := range r.Users {
		if user.ID == id {
			r.Users = append(r.Users[:index], r.Users[index+1:]...)
			return nil
		}
	}

	return errors.New("user not found")
}
