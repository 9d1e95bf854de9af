package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightNumber(t *testing.T) {
	assert.Equal(t, "123", FlightNumber("AF-123 "))
	assert.Equal(t, "123", FlightNumber("123"))
	assert.Equal(t, "4012", FlightNumber("XK 4012"))
	assert.Equal(t, "", FlightNumber("CARGO"))

	// feeding the output back in changes nothing
	assert.Equal(t, "123", FlightNumber(FlightNumber("AF-123")))
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{
		"2024-05-01",
		"01/05/2024",
		"2024-05-01 00:00:00",
		"2024-05-01T00:00:00",
		"2024-05-01Z",
		"45413", // spreadsheet serial
	} {
		parsed, err := ParseDate(raw)
		require.NoError(t, err, "raw=%q", raw)
		assert.Equal(t, "01/05/2024", parsed.Format(DateLayout), "raw=%q", raw)
	}

	_, err := ParseDate("not a date")
	assert.ErrorIs(t, err, ErrUnparseable)
	_, err = ParseDate("")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestDate(t *testing.T) {
	assert.Equal(t, "01/05/2024", Date("2024-05-01"))
	assert.Equal(t, "01/05/2024", Date(" 2024-05-01 "))
	assert.Equal(t, "01/05/2024", Date(Date("2024-05-01")))
	assert.Equal(t, "", Date(""))

	// unparseable values pass through untouched
	assert.Equal(t, "not a date", Date("not a date"))
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, "10:30:00", TimeOfDay("10:30"))
	assert.Equal(t, "10:30:00", TimeOfDay("10:30:00"))
	assert.Equal(t, "10:30:00", TimeOfDay(TimeOfDay("10:30")))
	assert.Equal(t, "", TimeOfDay(""))
	assert.Equal(t, "bogus", TimeOfDay("bogus"))
}

func TestAirport(t *testing.T) {
	assert.Equal(t, "LFPG", Airport(" LFPG "))
	assert.Equal(t, "LFPG", Airport(Airport("LFPG")))
}
