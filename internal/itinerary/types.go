package itinerary

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

// Itinerary is a curated multi-day trip plan.
type Itinerary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Destination   types.FlexRef   `json:"destination"`
	Summary       string          `json:"summary,omitempty"`
	Days          []Day           `json:"days,omitempty"`
	EstimatedCost decimal.Decimal `json:"estimatedCost,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

func (i *Itinerary) UnmarshalJSON(data []byte) error {
	type alias Itinerary
	aux := struct {
		*alias
		AltID   string `json:"_id"`
		AltName string `json:"name"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	i.ID = types.FirstNonEmpty(i.ID, aux.AltID)
	i.Title = types.FirstNonEmpty(i.Title, aux.AltName)
	return nil
}

// Day is one day of an itinerary with its planned visits in order.
type Day struct {
	Number int     `json:"number"`
	Title  string  `json:"title,omitempty"`
	Visits []Visit `json:"visits,omitempty"`
}

// Visit is a single stop within a day.
type Visit struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Image       string `json:"image,omitempty"`
}
