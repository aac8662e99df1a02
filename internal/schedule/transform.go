package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rickb777/date"
)

var validate = validator.New()

// Transform flattens one day's raw schedule into route and stop rows ready
// for insertion. Routes and stops keep their source order. Each route's
// identity timestamp is the day combined with its first stop's scheduled
// time, localized with LocalizeAssumeDST; every stop row carries that
// timestamp plus the parent's driver name. The function performs no I/O.
func Transform(raw RawSchedule, day date.Date, loc *time.Location) ([]RouteRecord, []StopRecord, error) {
	routes := make([]RouteRecord, 0, len(raw.Routes))
	var stops []StopRecord

	for i, r := range raw.Routes {
		if err := validate.Struct(r); err != nil {
			return nil, nil, fmt.Errorf("%w: route %d for %s: %v", ErrMalformedSchedule, i, day, err)
		}

		routeDateTime, err := LocalizeAssumeDST(loc, day, r.Stops[0].ScheduledAt)
		if err != nil {
			return nil, nil, err
		}

		routes = append(routes, RouteRecord{
			RouteDateTime:       routeDateTime,
			Duration:            r.Duration,
			VehicleLabel:        r.VehicleLabel,
			VehicleRegistration: r.VehicleRegistration,
			DriverSerial:        r.DriverSerial,
			Distance:            r.Distance,
			DriverName:          r.DriverName,
		})

		for _, s := range r.Stops {
			scheduleAt, err := LocalizeAssumeDST(loc, day, s.ScheduledAt)
			if err != nil {
				return nil, nil, err
			}

			locationNumber := UnassignedLocationNumber
			if s.LocationNo != "" {
				locationNumber, err = strconv.Atoi(s.LocationNo)
				if err != nil {
					return nil, nil, fmt.Errorf("%w: bad locationNo %q: %v", ErrMalformedSchedule, s.LocationNo, err)
				}
			}

			stops = append(stops, StopRecord{
				RouteDateTime:  routeDateTime,
				DriverName:     r.DriverName,
				LocationName:   s.LocationName,
				ScheduleAt:     scheduleAt,
				Longitude:      s.Longitude,
				Address:        s.Address,
				Latitude:       s.Latitude,
				StopNumber:     s.StopNumber,
				OrderNumber:    s.OrderNo,
				LocationNumber: locationNumber,
			})
		}
	}

	return routes, stops, nil
}
