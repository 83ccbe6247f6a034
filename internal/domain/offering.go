package domain

import "time"

type Offering struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnitPrice   Money     `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}

type OfferingRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   Money  `json:"unit_price"`
}

func (o *Offering) Ref() OfferingRef {
	return OfferingRef{ID: o.ID, Name: o.Name, Description: o.Description, UnitPrice: o.UnitPrice}
}
