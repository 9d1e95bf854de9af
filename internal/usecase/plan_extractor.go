package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/normalize"
)

// EmissionFactor converts tons of fuel burned to kilograms of CO2.
const EmissionFactor = 3.1

// tankeringSector is the advisory text that marks tankering weight as fuel
// actually carried for tankering.
const tankeringSector = "tankering sector"

// alternateRole marks the airport entry holding the primary arrival
// alternate.
const alternateRole = "PrimaryArrivalAlternateAirport"

// originDateLayouts are tried in order against the flight node's origin-date
// attribute.
var originDateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05"}

// PlanExtractor turns one operational-flight-plan XML document into a
// FuelRecord. Raw fuel weights are in kilograms and come out as metric tons.
type PlanExtractor struct {
	logger logger.Logger
}

// NewPlanExtractor creates a new flight plan extractor
func NewPlanExtractor(logger logger.Logger) *PlanExtractor {
	return &PlanExtractor{logger: logger}
}

// Extract parses one flight plan document. Only unparseable XML is an error;
// every missing or malformed field degrades to its zero default. Given the
// same bytes the output is identical.
func (e *PlanExtractor) Extract(data []byte, directory string) (*entity.FuelRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	record := &entity.FuelRecord{Directory: directory}

	record.TaxiFuel = e.fuelValue(doc, "//TaxiFuel/EstimatedWeight/Value")
	record.TripFuel = e.fuelValue(doc, "//TripFuel/EstimatedWeight/Value")
	record.ContingencyFuel = e.fuelValue(doc, "//ContingencyFuel/EstimatedWeight/Value")
	record.BlockFuel = e.fuelValue(doc, "//BlockFuel/EstimatedWeight/Value")
	record.FinalReserve = e.fuelValue(doc, "//FinalReserve/EstimatedWeight/Value")
	record.FuelOnBoard = e.fuelValue(doc, "//FuelOnBoard/EstimatedWeight/Value")
	record.OtherSafetyFuel = e.fuelValue(doc, "//PossibleExtra/EstimatedWeight/Value")
	record.ExtraFuel = e.fuelValue(doc, "//ExtraFuel/EstimatedWeight/Value")

	// Tankering weight only counts as additional fuel when the advisory
	// explicitly marks the sector as a tankering sector.
	tankeringWeight := e.fuelValue(doc, "//TankeringWeight/Value")
	advice := doc.FindElement("//TankeringAdvice")
	if advice != nil && strings.EqualFold(strings.TrimSpace(advice.Text()), tankeringSector) {
		record.AdditionalFuel = tankeringWeight
	}

	record.AlternateArrival = e.alternateAirport(doc)
	if record.AlternateArrival != entity.NoAlternate {
		if alt := doc.FindElement("//AlternateFuel"); alt != nil {
			if v, ok := parseDecimal(elementText(alt.FindElement(".//EstimatedWeight/Value"))); ok {
				record.AlternateFuel = v / 1000
			}
		}
	}

	record.DepartureAirport = elementText(doc.FindElement("//DepartureAirport/AirportICAOCode"))
	record.ArrivalAirport = elementText(doc.FindElement("//ArrivalAirport/AirportICAOCode"))

	if flight := doc.FindElement("//Flight"); flight != nil {
		record.FlightNumber = flight.SelectAttrValue("flightNumber", "")
		if record.FlightNumber == "" {
			if nested := flight.FindElement(".//FlightNumber"); nested != nil {
				record.FlightNumber = nested.SelectAttrValue("number", "")
			}
		}
		record.FlightDate = e.originDate(flight)
		record.DepartureTime = e.scheduledDeparture(flight)
	}

	record.Reason = e.tankeringReason(doc)
	if advice != nil {
		record.TankeringCategory = advice.SelectAttrValue("reason", "")
	}

	if v, ok := parseDecimal(elementText(doc.FindElement("//AirDistance/Value"))); ok {
		record.AirDistanceNM = v
	}

	record.DiscretionaryFuel = round3(math.Abs(record.BlockFuel - record.FuelOnBoard))
	record.CarbonEmissionKg = CarbonEmission(record.BlockFuel, record.ExtraFuel, record.FuelOnBoard)

	return record, nil
}

// CarbonEmission derives kilograms of CO2 from the fuel mass burned, floored
// at zero when the mass term is negative.
func CarbonEmission(blockFuel, extraFuel, fuelOnBoard float64) float64 {
	burned := blockFuel + extraFuel - fuelOnBoard
	if burned < 0 {
		return 0.0
	}
	return round3(burned * EmissionFactor)
}

// fuelValue extracts a fuel weight at the given path, converted from the base
// mass unit to metric tons. Missing or non-numeric values default to zero.
func (e *PlanExtractor) fuelValue(doc *etree.Document, path string) float64 {
	v, ok := parseDecimal(elementText(doc.FindElement(path)))
	if !ok {
		return 0.0
	}
	return v / 1000
}

// alternateAirport resolves the primary arrival alternate: ICAO code first,
// IATA second, the N/A sentinel when no entry carries the role.
func (e *PlanExtractor) alternateAirport(doc *etree.Document) string {
	for _, airportData := range doc.FindElements("//AirportData") {
		airport := airportData.FindElement("Airport")
		if airport == nil || !strings.Contains(airport.SelectAttrValue("airportFunction", ""), alternateRole) {
			continue
		}
		if icao := elementText(airportData.FindElement("AirportICAOCode")); icao != "" {
			return icao
		}
		if iata := elementText(airportData.FindElement("AirportIATACode")); iata != "" {
			return iata
		}
	}
	return entity.NoAlternate
}

// originDate reads the flight node's origin-date attribute, trying each known
// layout. Unparseable values are logged and left empty.
func (e *PlanExtractor) originDate(flight *etree.Element) string {
	raw := flight.SelectAttrValue("flightOriginDate", "")
	if raw == "" {
		return ""
	}
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "Z"))
	for _, layout := range originDateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(normalize.DateLayout)
		}
	}
	e.logger.Warn("Unparseable flight origin date", "value", raw)
	return ""
}

// scheduledDeparture reads the time-of-day part of the scheduled departure
// attribute, the substring after the T separator.
func (e *PlanExtractor) scheduledDeparture(flight *etree.Element) string {
	raw := flight.SelectAttrValue("scheduledTimeOfDeparture", "")
	if raw == "" {
		return ""
	}
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "Z"))
	if idx := strings.Index(cleaned, "T"); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	t, err := time.Parse(normalize.TimeLayout, cleaned)
	if err != nil {
		e.logger.Warn("Unparseable scheduled departure time", "value", raw)
		return ""
	}
	return t.Format(normalize.TimeLayout)
}

// tankeringReason prefers the tankering advisory's reason, falling back to
// the possible-extra-fuel advisory.
func (e *PlanExtractor) tankeringReason(doc *etree.Document) string {
	if advice := doc.FindElement("//TankeringAdvice"); advice != nil {
		if reason := advice.SelectAttrValue("reason", ""); reason != "" {
			return reason
		}
	}
	if extra := doc.FindElement("//PossibleExtraFuel"); extra != nil {
		return extra.SelectAttrValue("reason", "")
	}
	return ""
}

func elementText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// parseDecimal accepts only unsigned decimal numbers: digits with at most one
// dot. Anything else, including signs and exponents, is rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" || s == "." {
		return 0, false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
			if dots > 1 {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
