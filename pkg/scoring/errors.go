package scoring

import "fmt"

// ServiceError is a failure reported by a collaborator with its message string.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}
