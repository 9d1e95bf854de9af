package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/pkg/logger"
)

const sampleOFP = `<?xml version="1.0" encoding="UTF-8"?>
<OperationalFlightPlan>
  <Flight flightNumber="AF123" flightOriginDate="2024-05-01Z" scheduledTimeOfDeparture="2024-05-01T10:30:00Z"/>
  <DepartureAirport><AirportICAOCode>LFPG</AirportICAOCode></DepartureAirport>
  <ArrivalAirport><AirportICAOCode>EDDF</AirportICAOCode></ArrivalAirport>
  <FuelPlan>
    <TaxiFuel><EstimatedWeight><Value>200</Value></EstimatedWeight></TaxiFuel>
    <TripFuel><EstimatedWeight><Value>5500</Value></EstimatedWeight></TripFuel>
    <ContingencyFuel><EstimatedWeight><Value>275</Value></EstimatedWeight></ContingencyFuel>
    <BlockFuel><EstimatedWeight><Value>8000</Value></EstimatedWeight></BlockFuel>
    <FinalReserve><EstimatedWeight><Value>1000</Value></EstimatedWeight></FinalReserve>
    <FuelOnBoard><EstimatedWeight><Value>5500</Value></EstimatedWeight></FuelOnBoard>
    <ExtraFuel><EstimatedWeight><Value>0</Value></EstimatedWeight></ExtraFuel>
    <AlternateFuel><EstimatedWeight><Value>1200</Value></EstimatedWeight></AlternateFuel>
  </FuelPlan>
  <TankeringAdvice reason="economic">Tankering Sector</TankeringAdvice>
  <TankeringWeight><Value>1500</Value></TankeringWeight>
  <AirportData>
    <Airport airportFunction="PrimaryArrivalAlternateAirport"/>
    <AirportICAOCode>EDDM</AirportICAOCode>
  </AirportData>
  <AirDistance><Value>450.7</Value></AirDistance>
</OperationalFlightPlan>`

func TestExtract(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	record, err := extractor.Extract([]byte(sampleOFP), "/data/flight1")
	require.NoError(t, err)

	assert.Equal(t, "/data/flight1", record.Directory)
	assert.Equal(t, "AF123", record.FlightNumber)
	assert.Equal(t, "01/05/2024", record.FlightDate)
	assert.Equal(t, "10:30:00", record.DepartureTime)
	assert.Equal(t, "LFPG", record.DepartureAirport)
	assert.Equal(t, "EDDF", record.ArrivalAirport)

	// raw kilograms come out as metric tons
	assert.Equal(t, 0.2, record.TaxiFuel)
	assert.Equal(t, 5.5, record.TripFuel)
	assert.Equal(t, 0.275, record.ContingencyFuel)
	assert.Equal(t, 8.0, record.BlockFuel)
	assert.Equal(t, 1.0, record.FinalReserve)
	assert.Equal(t, 5.5, record.FuelOnBoard)
	assert.Equal(t, 0.0, record.ExtraFuel)

	// the advisory marks a tankering sector, so the weight counts
	assert.Equal(t, 1.5, record.AdditionalFuel)
	assert.Equal(t, "economic", record.Reason)
	assert.Equal(t, "economic", record.TankeringCategory)

	assert.Equal(t, "EDDM", record.AlternateArrival)
	assert.Equal(t, 1.2, record.AlternateFuel)
	assert.Equal(t, 450.7, record.AirDistanceNM)

	assert.Equal(t, 2.5, record.DiscretionaryFuel)
	assert.Equal(t, 7.75, record.CarbonEmissionKg)
}

func TestExtractDeterministic(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	first, err := extractor.Extract([]byte(sampleOFP), "/data/flight1")
	require.NoError(t, err)
	second, err := extractor.Extract([]byte(sampleOFP), "/data/flight1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractMalformedDocument(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	_, err := extractor.Extract([]byte("<OperationalFlightPlan><unclosed>"), "/data")
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestExtractDefaults(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	doc := `<OperationalFlightPlan>
  <TaxiFuel><EstimatedWeight><Value>abc</Value></EstimatedWeight></TaxiFuel>
  <TripFuel><EstimatedWeight><Value>-500</Value></EstimatedWeight></TripFuel>
</OperationalFlightPlan>`
	record, err := extractor.Extract([]byte(doc), "/data")
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.TaxiFuel, "non-numeric values default to zero")
	assert.Equal(t, 0.0, record.TripFuel, "signed values are rejected")
	assert.Equal(t, entity.NoAlternate, record.AlternateArrival)
	assert.Equal(t, 0.0, record.AlternateFuel)
	assert.Equal(t, "", record.FlightNumber)
	assert.Equal(t, "", record.FlightDate)
}

func TestExtractTankeringNotMarked(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	doc := `<OperationalFlightPlan>
  <TankeringAdvice reason="economic">No benefit</TankeringAdvice>
  <TankeringWeight><Value>1500</Value></TankeringWeight>
</OperationalFlightPlan>`
	record, err := extractor.Extract([]byte(doc), "/data")
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.AdditionalFuel)
	assert.Equal(t, "economic", record.Reason)
}

func TestExtractTankeringCaseInsensitive(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	doc := `<OperationalFlightPlan>
  <TankeringAdvice>tankering sector</TankeringAdvice>
  <TankeringWeight><Value>1500</Value></TankeringWeight>
</OperationalFlightPlan>`
	record, err := extractor.Extract([]byte(doc), "/data")
	require.NoError(t, err)

	assert.Equal(t, 1.5, record.AdditionalFuel)
}

func TestExtractAlternateIATAFallback(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	doc := `<OperationalFlightPlan>
  <AirportData>
    <Airport airportFunction="DepartureAirport"/>
    <AirportICAOCode>LFPG</AirportICAOCode>
  </AirportData>
  <AirportData>
    <Airport airportFunction="PrimaryArrivalAlternateAirport"/>
    <AirportIATACode>MUC</AirportIATACode>
  </AirportData>
</OperationalFlightPlan>`
	record, err := extractor.Extract([]byte(doc), "/data")
	require.NoError(t, err)

	assert.Equal(t, "MUC", record.AlternateArrival)
}

func TestExtractNestedFlightNumber(t *testing.T) {
	extractor := NewPlanExtractor(logger.NewNop())

	doc := `<OperationalFlightPlan>
  <Flight flightOriginDate="2024-05-01">
    <FlightIdentification><FlightNumber number="AF456"/></FlightIdentification>
  </Flight>
</OperationalFlightPlan>`
	record, err := extractor.Extract([]byte(doc), "/data")
	require.NoError(t, err)

	assert.Equal(t, "AF456", record.FlightNumber)
	assert.Equal(t, "01/05/2024", record.FlightDate)
}

func TestCarbonEmission(t *testing.T) {
	assert.Equal(t, 7.75, CarbonEmission(8.0, 0, 5.5))
	assert.Equal(t, 21.7, CarbonEmission(10, 1, 4))
	assert.Equal(t, 0.0, CarbonEmission(5, 0, 6), "negative burn floors at zero")
}
