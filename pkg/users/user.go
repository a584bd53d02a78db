package users

import (
	"time"
)

// User is an account that owns tasks, placements and settings
type User struct {
	ID             string    `json:"id"`
	Firstname      string    `json:"firstname" validate:"required"`
	Lastname       string    `json:"lastname" validate:"required"`
	Password       string    `json:"-" validate:"required"`
	Email          string    `json:"email" validate:"required,email"`
	CreatedAt      time.Time `json:"createdAt"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
	Settings       Settings  `json:"settings"`
}

// UserLogin is the payload for authenticating a user
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserRegister is the payload for creating a user
type UserRegister struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Settings hold all user-specific configuration
type Settings struct {
	Scheduling SchedulingSettings `json:"scheduling"`
}

// SchedulingSettings control how tasks get placed into a day
type SchedulingSettings struct {
	TimeZone                   string              `json:"timeZone"`
	DefaultTaskDurationMinutes int                 `json:"defaultTaskDurationMinutes"`
	MinTimeBetweenTasksMinutes int                 `json:"minTimeBetweenTasksMinutes"`
	SlotMinTime                string              `json:"slotMinTime"`
	SlotMaxTime                string              `json:"slotMaxTime"`
	IgnoreContainerTasks       bool                `json:"ignoreContainerTasks"`
	WorkingHours               []WorkingHourPeriod `json:"workingHours"`
}

// WorkingHourPeriod is a recurring daily window tasks may be placed into.
// The order of the configured periods decides which window fills up first.
type WorkingHourPeriod struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name,omitempty"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
	Color string `json:"color,omitempty"`
}

// WithDefaults fills unset scheduling values with their defaults
func (s SchedulingSettings) WithDefaults() SchedulingSettings {
	if s.TimeZone == "" {
		s.TimeZone = "UTC"
	}

	if s.DefaultTaskDurationMinutes <= 0 {
		s.DefaultTaskDurationMinutes = 30
	}

	if s.MinTimeBetweenTasksMinutes < 0 {
		s.MinTimeBetweenTasksMinutes = 0
	}

	if s.SlotMinTime == "" {
		s.SlotMinTime = "00:00"
	}

	if s.SlotMaxTime == "" {
		s.SlotMaxTime = "24:00"
	}

	return s
}
