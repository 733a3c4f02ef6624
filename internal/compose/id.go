package compose

import "github.com/google/uuid"

// newID returns a UUID v7 identity for a trait, class or interface.
// Version 7 ids sort by creation time, so catalog rows keep definition order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
