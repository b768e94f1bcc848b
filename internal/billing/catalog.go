// Package billing holds the pure pricing rules of the center: the schedule
// catalog, late-pickup penalties and monthly invoice totals. Nothing here
// performs I/O; callers persist the drafts it returns.
package billing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/daycare-api/internal/models"
)

// Catalog is an immutable set of fee schedules keyed by ID.
type Catalog struct {
	byID  map[string]models.Schedule
	order []string
}

// NewCatalog builds a catalog. Later duplicates replace earlier entries.
func NewCatalog(schedules []models.Schedule) *Catalog {
	c := &Catalog{byID: make(map[string]models.Schedule, len(schedules))}
	for _, s := range schedules {
		if _, exists := c.byID[s.ID]; !exists {
			c.order = append(c.order, s.ID)
		}
		c.byID[s.ID] = s
	}
	return c
}

// Lookup resolves a schedule ID.
func (c *Catalog) Lookup(id string) (models.Schedule, bool) {
	if c == nil {
		return models.Schedule{}, false
	}
	s, ok := c.byID[id]
	return s, ok
}

// All returns the schedules in declaration order.
func (c *Catalog) All() []models.Schedule {
	out := make([]models.Schedule, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the sorted schedule IDs, used for request validation.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}

func schedule(id, name string, price int64, end string) models.Schedule {
	return models.Schedule{ID: id, Name: name, Price: decimal.NewFromInt(price), EndTime: end}
}

// DefaultCatalog is the center's fee table.
func DefaultCatalog() *Catalog {
	return NewCatalog([]models.Schedule{
		schedule("h_305", "Cuota 305€", 305, "12:00"),
		schedule("h_315", "Cuota 315€ (8:30-12:30)", 315, "12:30"),
		schedule("h_400", "Cuota 400€", 400, "13:00"),
		schedule("h_410", "Cuota 410€ (8:30-13:30)", 410, "13:30"),
		schedule("h_415", "Cuota 415€", 415, "13:00"),
		schedule("h_425", "Cuota 425€ (8:30-15:00)", 425, "15:00"),
		schedule("h_440", "Cuota 440€", 440, "15:00"),
		schedule("h_450", "Cuota 450€ (8:30-15:30)", 450, "15:30"),
		schedule("h_460", "Cuota 460€ (8:30-16:30)", 460, "16:30"),
		schedule("h_480", "Cuota 480€", 480, "17:00"),
		schedule("h_495", "Cuota 495€ (8:30-17:00)", 495, "17:00"),
		schedule("h_510", "Cuota 510€", 510, "17:30"),
		schedule("h_530", "Cuota 530€", 530, "18:00"),
		schedule("h_545", "Cuota 545€ (8:30-18:00)", 545, "18:00"),
		schedule("h_560", "Cuota 560€", 560, "18:30"),
	})
}
