// internal/domain/entity/schedule_record.go
package entity

// Schedule-export column names, as they appear in the operations report.
const (
	ColScheduleFlightID  = "Flight ID"
	ColScheduleDate      = "Date of operation (UTC)"
	ColScheduleBlockOff  = "Departure Time/ Block-off time (UTC)"
	ColScheduleAircraft  = "AC registration"
	ColScheduleCarrier   = "Cie"
	ColScheduleArrival   = "Destination Airport ICAO Code"
	ColScheduleDeparture = "Departing Airport ICAO Code"
)

// ScheduleRequiredColumns must all be present in a trial header row for it to
// count as the real header.
var ScheduleRequiredColumns = []string{
	ColScheduleFlightID,
	ColScheduleDate,
	ColScheduleBlockOff,
}

// ScheduleRenames aligns schedule-export headers with the flight-plan
// artifact's schema before the two are merged.
var ScheduleRenames = map[string]string{
	ColScheduleFlightID:                ColFlightNumber,
	ColScheduleDate:                    ColFlightDate,
	ColScheduleBlockOff:                ColDepartureTime,
	ColScheduleArrival:                 ColArrivalAirport,
	ColScheduleDeparture:               ColDepartureAirport,
	"Arrival Time/ Block-on Time(UTC)": ColBlockOn,
}

// ColBlockOn is the normalized arrival-time column name.
const ColBlockOn = "Arrival Time/ Block-on Time (UTC)"
