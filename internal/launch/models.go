package launch

import (
	"time"
)

// Launch is a scheduled or historical mission. Flight numbers are unique and
// monotonically increasing; numbers at or below the baseline are reserved for
// seeded historical data.
type Launch struct {
	FlightNumber int       `json:"flightNumber"`
	Mission      string    `json:"mission"`
	Rocket       string    `json:"rocket"`
	LaunchDate   time.Time `json:"launchDate"`
	Target       string    `json:"target"`
	Customers    []string  `json:"customers"`
	Upcoming     bool      `json:"upcoming"`
	Success      bool      `json:"success"`
}

// FlightNumberBaseline is the high-water mark assumed for an empty store;
// the first allocated flight number is the baseline plus one.
const FlightNumberBaseline = 100

// DefaultCustomers is assigned to every newly scheduled launch.
var DefaultCustomers = []string{"Zero to Mastery", "NASA"}

// SeedLaunch is the historical demo mission written into every deployment at
// startup. It occupies the baseline flight number, so scheduled launches
// always begin one past it.
var SeedLaunch = Launch{
	FlightNumber: FlightNumberBaseline,
	Mission:      "Kepler Exploration X",
	Rocket:       "Explorer IS1",
	LaunchDate:   time.Date(2030, time.December, 27, 0, 0, 0, 0, time.UTC),
	Target:       "Kepler-442 b",
	Customers:    []string{"Zero to Mastery", "NASA"},
	Upcoming:     true,
	Success:      true,
}
