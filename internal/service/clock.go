package service

import (
	"errors"
	"time"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// Clock resolves "now" and "today" in the center's timezone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock for the given location.
func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

func (c Clock) today() models.Date {
	return models.DateOf(c.now())
}

func isNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}
