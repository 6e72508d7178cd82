package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate is the identity record sent when an interview begins.
type Candidate struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7,max=32"`
}

var candidateValidator = validator.New(validator.WithRequiredStructEnabled())

// MissingFields lists identity fields the resume intake could not fill.
func (c Candidate) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Merge fills empty fields of c from other.
func (c Candidate) Merge(other Candidate) Candidate {
	if strings.TrimSpace(c.Name) == "" {
		c.Name = other.Name
	}
	if strings.TrimSpace(c.Email) == "" {
		c.Email = other.Email
	}
	if strings.TrimSpace(c.Phone) == "" {
		c.Phone = other.Phone
	}
	return c
}

// Validate checks the record is complete enough to begin an interview.
func (c Candidate) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	err := candidateValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "email":
			problems = append(problems, field+" is not a valid email address")
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid candidate: %s", strings.Join(problems, "; "))
}
