package gym

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User binds a display name and free-text limitations to a validated
// profile. The ID identifies the user across routines and experiences.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Profile     Profile   `json:"profile"`
	Limitations string    `json:"limitations,omitempty"`
	StartDate   time.Time `json:"start_date"`
}

func NewUser(name string, profile Profile, limitations string) (User, error) {
	name = sanitizeFreeText(name, nameMaxLen)
	if name == "" {
		return User{}, fmt.Errorf("name must not be empty")
	}
	return User{
		ID:          uuid.NewString(),
		Name:        name,
		Profile:     profile,
		Limitations: sanitizeFreeText(limitations, limitationsMaxLen),
		StartDate:   time.Now(),
	}, nil
}
