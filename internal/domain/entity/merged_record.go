// internal/domain/entity/merged_record.go
package entity

import (
	"time"
)

// ColDataComplete flags rows whose identifying fields agreed across the two
// source systems.
const ColDataComplete = "Data_Complete"

// MergedOrderedColumns is the preferred leading column order of the merged
// artifact; columns the merge surfaced beyond these keep their existing order
// after them.
var MergedOrderedColumns = []string{
	ColFlightDate, ColScheduleAircraft, ColFlightNumber, "ICAO Call sign", "AC Type",
	"Flight type", ColDepartureAirport, ColArrivalAirport, ColDepartureTime,
	ColBlockOn, ColTaxiFuel, ColTripFuel, "Uplift Volume (Litres)",
	"Uplift density", ColContingencyFuel, ColAlternateFuel, ColFinalReserve,
	ColAdditionalFuel, ColDiscretionary, ColExtraFuel,
	ColOtherSafetyFuel, ColReason,
	ColTankeringCat, "Block Off (tonnes)",
	"Block On (tonnes)", ColBlockFuel, ColAlternateArrival, ColFuelOnBoard,
	ColAirDistance, ColCarbonEmission, ColDataComplete,
}

// MergedNumericColumns are coerced to decimals and rounded to 3 places in the
// merged artifact; coercion failures become nulls.
var MergedNumericColumns = []string{
	ColTaxiFuel, ColTripFuel, "Uplift Volume (Litres)", "Uplift density", ColContingencyFuel,
	ColAlternateFuel, ColFinalReserve, ColAdditionalFuel, ColDiscretionary,
	ColExtraFuel, ColOtherSafetyFuel, "Block Off (tonnes)",
	"Block On (tonnes)", ColBlockFuel, ColFuelOnBoard, ColAirDistance, ColCarbonEmission,
}

// CompletenessColumns is the fixed comparison set behind Data_Complete: a row
// is complete when schedule-side and plan-side values agree on every one of
// these, two absent values counting as agreement.
var CompletenessColumns = []string{
	ColFlightNumber, ColFlightDate, ColDepartureTime, ColArrivalAirport, ColDepartureAirport,
}

// MergedRecord is one finalized merged row as persisted to the document
// store, keyed by flight identity.
type MergedRecord struct {
	ID               string                 `bson:"_id,omitempty"`
	FlightKey        string                 `bson:"flightKey"` // {flightNumber}:{flightDate} - unique index
	FlightNumber     string                 `bson:"flightNumber"`
	FlightDate       string                 `bson:"flightDate"`
	TimeOfDeparture  string                 `bson:"timeOfDeparture"`
	DepartureAirport string                 `bson:"departureAirport"`
	ArrivalAirport   string                 `bson:"arrivalAirport"`
	BlockFuel        float64                `bson:"blockFuel"`
	TripFuel         float64                `bson:"tripFuel"`
	FuelOnBoard      float64                `bson:"fuelOnBoard"`
	AirDistanceNM    float64                `bson:"airDistanceNm"`
	CarbonEmissionKg float64                `bson:"carbonEmissionKg"`
	DataComplete     bool                   `bson:"dataComplete"`
	Fields           map[string]interface{} `bson:"fields,omitempty"`
	CreatedAt        time.Time              `bson:"createdAt"`
	UpdatedAt        time.Time              `bson:"updatedAt"`
}

// FlightKeyOf builds the document-store key for a merged row.
func FlightKeyOf(flightNumber, flightDate string) string {
	return flightNumber + ":" + flightDate
}
