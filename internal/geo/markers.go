// Package geo extracts shared map locations from the record set and, on
// request, resolves them to addresses through a Nominatim-style reverse
// geocoding service.
package geo

import (
	"regexp"
	"strconv"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

// geohashPrecision buckets nearby markers into the same cell.
const geohashPrecision = 4

var locationURLRE = regexp.MustCompile(`https://maps\.google\.com/\?q=(-?\d+\.\d+),(-?\d+\.\d+)`)

// Marker is one shared location extracted from a message.
type Marker struct {
	Lat       float64
	Lon       float64
	Geohash   string
	Username  string
	Timestamp time.Time
}

// ExtractCoords parses the coordinates out of a shared-location message.
func ExtractCoords(message string) (lat, lon float64, ok bool) {
	m := locationURLRE.FindStringSubmatch(message)
	if m == nil {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// Markers pulls every location marker out of the store's candidate rows.
// Rows whose message does not actually contain a coordinate URL are
// skipped.
func Markers(rows []session.TranscriptRow) []Marker {
	var markers []Marker
	for _, row := range rows {
		lat, lon, ok := ExtractCoords(row.Message)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			Lat:       lat,
			Lon:       lon,
			Geohash:   geohash.EncodeWithPrecision(lat, lon, geohashPrecision),
			Username:  row.Username,
			Timestamp: row.Timestamp,
		})
	}
	return markers
}
