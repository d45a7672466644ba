package catalog

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

// Destination is a browsable travel destination.
type Destination struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Country     string          `json:"country,omitempty"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	PriceFrom   decimal.Decimal `json:"priceFrom,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

func (d *Destination) UnmarshalJSON(data []byte) error {
	type alias Destination
	aux := struct {
		*alias
		AltID    string `json:"_id"`
		ImageURL string `json:"imageUrl"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ID = types.FirstNonEmpty(d.ID, aux.AltID)
	d.Image = types.FirstNonEmpty(d.Image, aux.ImageURL)
	return nil
}

// Hotel is a bookable stay tied to a destination.
type Hotel struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Destination   types.FlexRef   `json:"destination"`
	Description   string          `json:"description,omitempty"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Rating        float64         `json:"rating,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Amenities     []string        `json:"amenities,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
}

func (h *Hotel) UnmarshalJSON(data []byte) error {
	type alias Hotel
	aux := struct {
		*alias
		AltID    string           `json:"_id"`
		AltPrice *decimal.Decimal `json:"price"`
	}{alias: (*alias)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.ID = types.FirstNonEmpty(h.ID, aux.AltID)
	if h.PricePerNight.IsZero() && aux.AltPrice != nil {
		h.PricePerNight = *aux.AltPrice
	}
	return nil
}

// Flight is a bookable flight between two cities.
type Flight struct {
	ID             string          `json:"id"`
	Airline        string          `json:"airline"`
	FlightNumber   string          `json:"flightNumber,omitempty"`
	From           types.FlexRef   `json:"from"`
	To             types.FlexRef   `json:"to"`
	DepartureTime  time.Time       `json:"departureTime,omitempty"`
	ArrivalTime    time.Time       `json:"arrivalTime,omitempty"`
	Price          decimal.Decimal `json:"price"`
	SeatsAvailable int             `json:"seatsAvailable,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

func (f *Flight) UnmarshalJSON(data []byte) error {
	type alias Flight
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.ID = types.FirstNonEmpty(f.ID, aux.AltID)
	return nil
}

// Package is a bundled trip offering.
type Package struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Destination  types.FlexRef   `json:"destination"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"durationDays,omitempty"`
	Rating       float64         `json:"rating,omitempty"`
	Images       []string        `json:"images,omitempty"`
	Includes     []string        `json:"includes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

func (p *Package) UnmarshalJSON(data []byte) error {
	type alias Package
	aux := struct {
		*alias
		AltID    string `json:"_id"`
		AltTitle string `json:"title"`
		Duration int    `json:"duration"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = types.FirstNonEmpty(p.ID, aux.AltID)
	p.Name = types.FirstNonEmpty(p.Name, aux.AltTitle)
	if p.DurationDays == 0 {
		p.DurationDays = aux.Duration
	}
	return nil
}
