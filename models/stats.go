package models

// CityStats aggregates bookings for one city.
type CityStats struct {
	CityID    int    `json:"city_id"`
	CityName  string `json:"city_name"`
	State     string `json:"state"`
	Total     int64  `json:"total"`
	Confirmed int64  `json:"confirmed"`
	Cancelled int64  `json:"cancelled"`
}

// Stats is the body of GET /stats.
type Stats struct {
	TotalBookings     int64       `json:"total_bookings"`
	ConfirmedBookings int64       `json:"confirmed_bookings"`
	CancelledBookings int64       `json:"cancelled_bookings"`
	TodayBookings     int64       `json:"today_bookings"`
	Unavailabilities  int64       `json:"unavailabilities"`
	ByCity            []CityStats `json:"by_city"`
}

// Counts is the snapshot returned by the admin backup endpoint.
type Counts struct {
	Bookings         int64 `json:"bookings"`
	Unavailabilities int64 `json:"unavailabilities"`
	Cities           int64 `json:"cities"`
}
