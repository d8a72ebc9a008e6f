package ledger

import (
	"fmt"
	"math/rand"
	"time"
)

// Clock supplies the current day and the default check-in/check-out times of
// day. It is injectable so tests can pin deterministic values while the
// production wiring keeps the randomized times.
type Clock interface {
	// Today returns the current date.
	Today() time.Time
	// CheckInTime returns an HH:MM:SS time of day for a default check-in.
	CheckInTime() string
	// CheckOutTime returns an HH:MM:SS time of day for a default check-out.
	CheckOutTime() string
}

// randomClock draws check-in times uniformly from 09:00:00-09:59:59 and
// check-out times from 21:00:00-21:59:59, simulating natural variance in
// real clock-in times.
type randomClock struct{}

// NewRandomClock returns the production Clock.
func NewRandomClock() Clock {
	return randomClock{}
}

func (randomClock) Today() time.Time {
	return time.Now()
}

func (randomClock) CheckInTime() string {
	return fmt.Sprintf("09:%02d:%02d", rand.Intn(60), rand.Intn(60))
}

func (randomClock) CheckOutTime() string {
	return fmt.Sprintf("21:%02d:%02d", rand.Intn(60), rand.Intn(60))
}
