package upstream

import (
	"fmt"
	"net/url"
)

// Route paths on the travel api, relative to the configured base URL.
const (
	destinationsPath = "destinations"
	hotelsPath       = "hotels"
	flightsPath      = "flights"
	packagesPath     = "packages"
	blogPath         = "blog"
	itinerariesPath  = "itineraries"
	bookingsPath     = "bookings"
	authPath         = "auth"
	searchPath       = "search"
)

// Resource labels used for metrics and structured logging.
const (
	ResourceDestinations = "destinations"
	ResourceHotels       = "hotels"
	ResourceFlights      = "flights"
	ResourcePackages     = "packages"
	ResourceBlog         = "blog"
	ResourceItineraries  = "itineraries"
	ResourceBookings     = "bookings"
	ResourceAuth         = "auth"
	ResourceSearch       = "search"
)

func DestinationsPath() string { return destinationsPath }

func DestinationPath(id string) string {
	return fmt.Sprintf("%s/%s", destinationsPath, url.PathEscape(id))
}

func HotelsPath() string { return hotelsPath }

func HotelPath(id string) string {
	return fmt.Sprintf("%s/%s", hotelsPath, url.PathEscape(id))
}

func FlightsPath() string { return flightsPath }

func FlightPath(id string) string {
	return fmt.Sprintf("%s/%s", flightsPath, url.PathEscape(id))
}

func PackagesPath() string { return packagesPath }

func PackagePath(id string) string {
	return fmt.Sprintf("%s/%s", packagesPath, url.PathEscape(id))
}

func BlogPath() string { return blogPath }

func BlogPostPath(slug string) string {
	return fmt.Sprintf("%s/%s", blogPath, url.PathEscape(slug))
}

func ItinerariesPath() string { return itinerariesPath }

func ItineraryPath(id string) string {
	return fmt.Sprintf("%s/%s", itinerariesPath, url.PathEscape(id))
}

func BookingsPath() string { return bookingsPath }

func BookingPath(id string) string {
	return fmt.Sprintf("%s/%s", bookingsPath, url.PathEscape(id))
}

func BookingCancelPath(id string) string {
	return fmt.Sprintf("%s/%s/cancel", bookingsPath, url.PathEscape(id))
}

func AuthMePath() string { return authPath + "/me" }

func AuthLoginPath() string { return authPath + "/login" }

func AuthRegisterPath() string { return authPath + "/register" }

func SearchPath() string { return searchPath }
