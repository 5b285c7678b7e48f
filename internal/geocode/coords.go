package geocode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCoordinatePair checks whether the text already looks like a
// "lat,lon" pair within valid ranges. Such input is accepted as a
// pre-resolved location without a geocoder call.
func ParseCoordinatePair(text string) (lat, lon float64, ok bool) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// FormatCoordinates renders a lat/lon pair in the canonical stored form
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
	)
}
