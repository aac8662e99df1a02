package schedule

import (
	"time"
)

// RawSchedule is the payload returned by the routing API for one calendar day.
// On success it carries Routes; on failure the API returns Message instead.
type RawSchedule struct {
	Routes  []RawRoute `json:"routes"`
	Message string     `json:"message,omitempty"`
}

// RawRoute is one vehicle's route exactly as the routing API describes it.
type RawRoute struct {
	Duration            int       `json:"duration"`
	VehicleLabel        string    `json:"vehicleLabel"`
	VehicleRegistration string    `json:"vehicleRegistration"`
	DriverSerial        string    `json:"driverSerial"`
	Distance            float64   `json:"distance"`
	DriverName          string    `json:"driverName"`
	Stops               []RawStop `json:"stops" validate:"min=1,dive"`
}

// RawStop is a single scheduled stop within a raw route. ScheduledAt is a
// 24-hour "HH:MM" wall-clock string; LocationNo may be empty.
type RawStop struct {
	LocationName string  `json:"locationName"`
	ScheduledAt  string  `json:"scheduledAt" validate:"required"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	Address      string  `json:"address"`
	StopNumber   int     `json:"stopNumber"`
	OrderNo      string  `json:"orderNo"`
	LocationNo   string  `json:"locationNo"`
}

// RouteRecord is one row of the route table. RouteDateTime is the route's
// identity: the day combined with the first stop's scheduled time, localized
// to the schedule timezone.
type RouteRecord struct {
	RouteDateTime       time.Time `db:"route_date_time"`
	Duration            int       `db:"duration"`
	VehicleLabel        string    `db:"vehicle_label"`
	VehicleRegistration string    `db:"vehicle_registration"`
	DriverSerial        string    `db:"driver_serial"`
	Distance            float64   `db:"distance"`
	DriverName          string    `db:"driver_name"`
}

// StopRecord is one row of the route_stop table. RouteDateTime links the stop
// to its owning RouteRecord by value; ScheduleAt is the stop's own localized
// time. LocationNumber is -1 when the source field was empty.
type StopRecord struct {
	RouteDateTime  time.Time `db:"route_date_time"`
	DriverName     string    `db:"driver_name"`
	LocationName   string    `db:"location_name"`
	ScheduleAt     time.Time `db:"schedule_at"`
	Longitude      float64   `db:"longitude"`
	Address        string    `db:"address"`
	Latitude       float64   `db:"latitude"`
	StopNumber     int       `db:"stop_number"`
	OrderNumber    string    `db:"order_number"`
	LocationNumber int       `db:"location_number"`
}

// UnassignedLocationNumber is stored when the routing API sends an empty
// locationNo for a stop.
const UnassignedLocationNumber = -1
