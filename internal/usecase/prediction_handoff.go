package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"fuelops-service/internal/domain/entity"
	"fuelops-service/internal/domain/repository"
	"fuelops-service/pkg/logger"
	"fuelops-service/pkg/tabular"
)

// RoutePrediction is one hand-off row for the model-inference collaborator.
type RoutePrediction struct {
	Route            string  `json:"route"`
	DepartureAirport string  `json:"departure_airport"`
	ArrivalAirport   string  `json:"arrival_airport"`
	AirDistanceNM    float64 `json:"air_distance_nm"`
	ActualFuel       float64 `json:"actual_fuel_tonnes"`
	PredictedFuel    float64 `json:"predicted_fuel_tonnes"`
	FuelError        float64 `json:"fuel_error_tonnes"`
	ActualCO2        float64 `json:"actual_co2_kg"`
	PredictedCO2     float64 `json:"predicted_co2_kg"`
	CO2Error         float64 `json:"co2_error_kg"`

	DepartureAirportName string `json:"departure_airport_name,omitempty"`
	ArrivalAirportName   string `json:"arrival_airport_name,omitempty"`
	DepartureCountry     string `json:"departure_country,omitempty"`
	ArrivalCountry       string `json:"arrival_country,omitempty"`
}

// PredictionHandoff prepares the merged fuel data for the model-inference
// collaborator: median-filled features, route assembly, airport decoration,
// and distance-based regression estimates.
type PredictionHandoff struct {
	airportRepo repository.AirportRepository
	logger      logger.Logger
}

// NewPredictionHandoff creates a new prediction hand-off builder. A nil
// airport repository degrades to routes without airport names.
func NewPredictionHandoff(airportRepo repository.AirportRepository, logger logger.Logger) *PredictionHandoff {
	return &PredictionHandoff{airportRepo: airportRepo, logger: logger}
}

// Run builds the hand-off table from the flight-plan artifact and writes it
// as a CSV artifact, reporting mean predicted fuel and CO2.
func (h *PredictionHandoff) Run(ctx context.Context, fuelDataPath, outputPath string) (entity.RunStatus, error) {
	if err := validateContainer(fuelDataPath); err != nil {
		return entity.Failure(err.Error()), err
	}
	table, err := tabular.Read(fuelDataPath)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %v", ErrInvalidSourceFile, fuelDataPath, err)
		return entity.Failure(wrapped.Error()), wrapped
	}

	predictions := h.Build(ctx, table)
	if len(predictions) == 0 {
		return entity.Failure(fmt.Sprintf("no rows to predict in %s", fuelDataPath)), nil
	}

	if err := writePredictionCSV(predictions, outputPath); err != nil {
		return entity.Failure(fmt.Sprintf("failed to write %s: %v", outputPath, err)), err
	}

	var meanFuel, meanCO2 float64
	for _, p := range predictions {
		meanFuel += p.PredictedFuel
		meanCO2 += p.PredictedCO2
	}
	meanFuel = round3(meanFuel / float64(len(predictions)))
	meanCO2 = round3(meanCO2 / float64(len(predictions)))

	h.logger.Info("Prediction hand-off written", "output", outputPath, "routes", len(predictions))
	return entity.RunStatus{
		Success: true,
		Message: fmt.Sprintf("prediction hand-off complete: %s", outputPath),
		Data: map[string]interface{}{
			"predicted_fuel": meanFuel,
			"predicted_co2":  meanCO2,
			"table":          predictions,
		},
	}, nil
}

// Build assembles the hand-off rows: distance/fuel/emission columns coerced
// with nulls filled by the column median, one route per input row, and simple
// least-squares estimates fit on the filled data.
func (h *PredictionHandoff) Build(ctx context.Context, table *tabular.Table) []RoutePrediction {
	distances := fillColumn(table, entity.ColAirDistance)
	fuels := fillColumn(table, entity.ColTripFuel)
	emissions := fillColumn(table, entity.ColCarbonEmission)

	if len(table.Rows) == 0 {
		return nil
	}

	fuelAlpha, fuelBeta := stat.LinearRegression(distances, fuels, nil, false)
	co2Alpha, co2Beta := stat.LinearRegression(distances, emissions, nil, false)

	predictions := make([]RoutePrediction, 0, len(table.Rows))
	for i := range table.Rows {
		departure := cellString(table, i, entity.ColDepartureAirport)
		arrival := cellString(table, i, entity.ColArrivalAirport)

		predictedFuel := fuelAlpha + fuelBeta*distances[i]
		predictedCO2 := co2Alpha + co2Beta*distances[i]

		p := RoutePrediction{
			Route:            departure + " -> " + arrival,
			DepartureAirport: departure,
			ArrivalAirport:   arrival,
			AirDistanceNM:    distances[i],
			ActualFuel:       fuels[i],
			PredictedFuel:    round3(predictedFuel),
			FuelError:        round3(math.Abs(fuels[i] - predictedFuel)),
			ActualCO2:        emissions[i],
			PredictedCO2:     round3(predictedCO2),
			CO2Error:         round3(math.Abs(emissions[i] - predictedCO2)),
		}
		h.decorate(ctx, &p)
		predictions = append(predictions, p)
	}
	return predictions
}

// decorate fills airport names and countries from the reference repository.
// Unknown codes stay as "Unknown" like any other missing mapping.
func (h *PredictionHandoff) decorate(ctx context.Context, p *RoutePrediction) {
	if h.airportRepo == nil {
		return
	}
	lookup := func(code string) (string, string) {
		airport, err := h.airportRepo.GetByCode(ctx, code)
		if err != nil || airport == nil {
			return "Unknown", "Unknown"
		}
		return airport.Name, airport.Country
	}
	p.DepartureAirportName, p.DepartureCountry = lookup(p.DepartureAirport)
	p.ArrivalAirportName, p.ArrivalCountry = lookup(p.ArrivalAirport)
}

// fillColumn coerces a column to decimals, replacing nulls and non-numeric
// values with the median of the values that did parse.
func fillColumn(table *tabular.Table, name string) []float64 {
	idx := table.ColumnIndex(name)
	values := make([]float64, len(table.Rows))
	present := make([]bool, len(table.Rows))
	var parsed []float64

	for i, row := range table.Rows {
		if idx < 0 || row[idx] == nil {
			continue
		}
		if v, err := strconv.ParseFloat(*row[idx], 64); err == nil {
			values[i] = v
			present[i] = true
			parsed = append(parsed, v)
		}
	}

	median := 0.0
	if len(parsed) > 0 {
		sort.Float64s(parsed)
		median = stat.Quantile(0.5, stat.Empirical, parsed, nil)
	}
	for i := range values {
		if !present[i] {
			values[i] = median
		}
	}
	return values
}

func cellString(table *tabular.Table, row int, name string) string {
	if cell := table.Cell(row, name); cell != nil {
		return *cell
	}
	return ""
}

func writePredictionCSV(predictions []RoutePrediction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"Route", "Departure Airport", "Arrival Airport", "Air Distance (NM)",
		"Actual Fuel (tonnes)", "Predicted Fuel (tonnes)", "Fuel Error (tonnes)",
		"Actual CO2 (kg)", "Predicted CO2 (kg)", "CO2 Error (kg)",
		"Departure Airport Name", "Arrival Airport Name", "Departure Country", "Arrival Country",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range predictions {
		record := []string{
			p.Route, p.DepartureAirport, p.ArrivalAirport, formatFloat(p.AirDistanceNM),
			formatFloat(p.ActualFuel), formatFloat(p.PredictedFuel), formatFloat(p.FuelError),
			formatFloat(p.ActualCO2), formatFloat(p.PredictedCO2), formatFloat(p.CO2Error),
			p.DepartureAirportName, p.ArrivalAirportName, p.DepartureCountry, p.ArrivalCountry,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
