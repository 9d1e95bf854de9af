// internal/domain/entity/fuel_record.go
package entity

import "strconv"

// Fuel-plan artifact column names. Order is part of the artifact contract;
// downstream consumers key off these exact strings.
const (
	ColFlightDate       = "Date of Flight"
	ColDepartureTime    = "Time of Departure"
	ColFlightNumber     = "Flight Number"
	ColDepartureAirport = "DepartureAirport"
	ColArrivalAirport   = "ArrivalAirport"
	ColTaxiFuel         = "TaxiFuel"
	ColTripFuel         = "TripFuel"
	ColContingencyFuel  = "ContingencyFuel"
	ColBlockFuel        = "BlockFuel"
	ColFinalReserve     = "FinalReserve"
	ColAdditionalFuel   = "Additional Fuel (tonnes)"
	ColOtherSafetyFuel  = "Fuel for other safety rules (tonnes)"
	ColDiscretionary    = "Discretionary Fuel"
	ColExtraFuel        = "Extra Fuel"
	ColReason           = "Reason"
	ColTankeringCat     = "Economic tankering category in the flight plan"
	ColAlternateFuel    = "AlternateFuel"
	ColAlternateArrival = "Alternate Arrival Airport"
	ColFuelOnBoard      = "FOB"
	ColAirDistance      = "Air Distance (NM)"
	ColCarbonEmission   = "Carbon Emission (kg)"
)

// NoAlternate is the sentinel emitted when a flight plan names no primary
// arrival alternate airport.
const NoAlternate = "N/A"

// FuelDataColumns is the fixed column order of the flight-plan artifact.
var FuelDataColumns = []string{
	ColFlightDate,
	ColDepartureTime,
	ColFlightNumber,
	ColDepartureAirport,
	ColArrivalAirport,
	ColTaxiFuel,
	ColTripFuel,
	ColContingencyFuel,
	ColBlockFuel,
	ColFinalReserve,
	ColAdditionalFuel,
	ColOtherSafetyFuel,
	ColDiscretionary,
	ColExtraFuel,
	ColReason,
	ColTankeringCat,
	ColAlternateFuel,
	ColAlternateArrival,
	ColFuelOnBoard,
	ColAirDistance,
	ColCarbonEmission,
}

// FuelRecord is one extracted operational flight plan. Fuel quantities are in
// metric tons; absent or non-numeric source fields default to zero.
type FuelRecord struct {
	Directory         string
	FlightNumber      string
	FlightDate        string
	DepartureTime     string
	DepartureAirport  string
	ArrivalAirport    string
	TaxiFuel          float64
	TripFuel          float64
	ContingencyFuel   float64
	BlockFuel         float64
	FinalReserve      float64
	AdditionalFuel    float64
	OtherSafetyFuel   float64
	DiscretionaryFuel float64
	ExtraFuel         float64
	Reason            string
	TankeringCategory string
	AlternateFuel     float64
	AlternateArrival  string
	FuelOnBoard       float64
	AirDistanceNM     float64
	CarbonEmissionKg  float64
}

// CellMap returns the record as artifact column values.
func (r *FuelRecord) CellMap() map[string]string {
	return map[string]string{
		ColFlightDate:       r.FlightDate,
		ColDepartureTime:    r.DepartureTime,
		ColFlightNumber:     r.FlightNumber,
		ColDepartureAirport: r.DepartureAirport,
		ColArrivalAirport:   r.ArrivalAirport,
		ColTaxiFuel:         formatFuel(r.TaxiFuel),
		ColTripFuel:         formatFuel(r.TripFuel),
		ColContingencyFuel:  formatFuel(r.ContingencyFuel),
		ColBlockFuel:        formatFuel(r.BlockFuel),
		ColFinalReserve:     formatFuel(r.FinalReserve),
		ColAdditionalFuel:   formatFuel(r.AdditionalFuel),
		ColOtherSafetyFuel:  formatFuel(r.OtherSafetyFuel),
		ColDiscretionary:    formatFuel(r.DiscretionaryFuel),
		ColExtraFuel:        formatFuel(r.ExtraFuel),
		ColReason:           r.Reason,
		ColTankeringCat:     r.TankeringCategory,
		ColAlternateFuel:    formatFuel(r.AlternateFuel),
		ColAlternateArrival: r.AlternateArrival,
		ColFuelOnBoard:      formatFuel(r.FuelOnBoard),
		ColAirDistance:      formatFuel(r.AirDistanceNM),
		ColCarbonEmission:   formatFuel(r.CarbonEmissionKg),
	}
}

func formatFuel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
