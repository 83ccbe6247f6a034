package memory

import (
	"time"

	"github.com/stpnv0/AdventureBooker/internal/domain"
)

// Seed fills the store with the same demo catalog the postgres migrations insert.
func Seed(s *Store) {
	now := time.Now().UTC()

	for _, u := range []*domain.User{
		{ID: "0b6f1c3e-6a0e-4c55-9a55-1f3f7d7c0a01", Name: "Alice Martin", Email: "alice@example.com"},
		{ID: "0b6f1c3e-6a0e-4c55-9a55-1f3f7d7c0a02", Name: "Bruno Keller", Email: "bruno@example.com"},
		{ID: "0b6f1c3e-6a0e-4c55-9a55-1f3f7d7c0a03", Name: "Chloe Dubois", Email: "chloe@example.com"},
	} {
		u.CreatedAt = now
		s.AddUser(u)
	}

	for _, o := range []*domain.Offering{
		{ID: "5d2a9e44-2f1b-4d6e-8c3a-7b9e0f1a2b01", Name: "Glacier Trek",
			Description: "Guided day trek across the Aletsch glacier", UnitPrice: 10000},
		{ID: "5d2a9e44-2f1b-4d6e-8c3a-7b9e0f1a2b02", Name: "Via Ferrata",
			Description: "Protected climbing route with certified guide", UnitPrice: 2500},
		{ID: "5d2a9e44-2f1b-4d6e-8c3a-7b9e0f1a2b03", Name: "Alpine Hut Stay",
			Description: "Half board in a high mountain hut", UnitPrice: 7999},
	} {
		o.CreatedAt = now
		s.AddOffering(o)
	}
}
