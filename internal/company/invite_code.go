package company

import (
	"fmt"
	"math/rand"
)

// NewInviteCode returns a random 8-digit code. Uniqueness is the caller's
// problem: retry against the unique index until one sticks.
func NewInviteCode() string {
	return fmt.Sprintf("%d", 10000000+rand.Intn(90000000))
}
