package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
)

// Item is one cart line. Kind decides which detail block is populated; a
// hotel line never carries flight details and vice versa.
type Item struct {
	ID             string             `json:"id"`
	Kind           enums.CartItemKind `json:"kind"`
	Title          string             `json:"title"`
	Image          string             `json:"image,omitempty"`
	Price          decimal.Decimal    `json:"price"`
	Currency       string             `json:"currency,omitempty"`
	Quantity       int                `json:"quantity"`
	IdempotencyKey string             `json:"idempotencyKey"`
	Hotel          *HotelDetails      `json:"hotel,omitempty"`
	Flight         *FlightDetails     `json:"flight,omitempty"`
	Package        *PackageDetails    `json:"package,omitempty"`
	AddedAt        time.Time          `json:"addedAt"`
}

// Subtotal is the line price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HotelDetails carries the stay-specific fields of a hotel line.
type HotelDetails struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Guests   int       `json:"guests,omitempty"`
	RoomType string    `json:"roomType,omitempty"`
}

// FlightDetails carries the flight-specific fields of a flight line.
type FlightDetails struct {
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departureTime,omitempty"`
	Passengers    int       `json:"passengers,omitempty"`
	CabinClass    string    `json:"cabinClass,omitempty"`
}

// PackageDetails carries the package-specific fields of a package line.
type PackageDetails struct {
	StartDate    time.Time `json:"startDate,omitempty"`
	Travelers    int       `json:"travelers,omitempty"`
	DurationDays int       `json:"durationDays,omitempty"`
}

// Cart is a session's pending booking selection.
type Cart struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Total sums price times quantity across all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count sums the quantities across all lines.
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) find(id string, kind enums.CartItemKind) int {
	for i, item := range c.Items {
		if item.ID == id && item.Kind == kind {
			return i
		}
	}
	return -1
}
