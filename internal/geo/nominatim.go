package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Address is the subset of a reverse-geocoding response used downstream.
type Address struct {
	Road    string `json:"road"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type reverseResponse struct {
	Address *Address `json:"address"`
}

// Geocoder resolves coordinates to addresses through a Nominatim-compatible
// endpoint. Calls are sequential and bounded by the caller's context.
//
// Failure handling mirrors the upstream service's behavior classes: a timed
// out request is retried indefinitely with a jittered pause, while a
// service error (5xx, refused connection) yields no result without retry.
type Geocoder struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Log       zerolog.Logger

	// MaxJitter caps the random pause between timeout retries.
	MaxJitter time.Duration
}

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

func NewGeocoder(baseURL, userAgent string, log zerolog.Logger) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = fmt.Sprintf("tca_%05d", rand.Intn(90000)+10000)
	}
	return &Geocoder{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 10 * time.Second},
		Log:       log,
		MaxJitter: 3 * time.Second,
	}
}

// Reverse resolves one coordinate pair. A nil Address with a nil error
// means the service could not resolve the location; the caller moves on.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	for {
		addr, err := g.reverseOnce(ctx, lat, lon)
		if err == nil {
			return addr, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isTimeout(err) {
			g.Log.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).
				Msg("reverse geocoding gave up")
			return nil, nil
		}

		g.Log.Debug().Float64("lat", lat).Float64("lon", lon).Msg("reverse geocoding timed out, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.jitter()):
		}
	}
}

var errServiceUnavailable = errors.New("geocoding service unavailable")

func (g *Geocoder) reverseOnce(ctx context.Context, lat, lon float64) (*Address, error) {
	u := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s",
		g.BaseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", errServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoding: unexpected status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode reverse geocoding response: %w", err)
	}
	if body.Address == nil {
		return nil, nil
	}
	return body.Address, nil
}

func (g *Geocoder) jitter() time.Duration {
	max := g.MaxJitter
	if max <= time.Second {
		return max
	}
	return time.Second + time.Duration(rand.Int63n(int64(max-time.Second)))
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ResolveMarkers reverse-geocodes each marker sequentially, reporting
// progress after every lookup. Markers the service cannot resolve get a nil
// address and stay in the result.
type ResolvedMarker struct {
	Marker
	Address *Address
}

func (g *Geocoder) ResolveMarkers(ctx context.Context, markers []Marker, onProgress func(done, total int)) ([]ResolvedMarker, error) {
	resolved := make([]ResolvedMarker, 0, len(markers))
	for i, m := range markers {
		addr, err := g.Reverse(ctx, m.Lat, m.Lon)
		if err != nil {
			return resolved, err
		}
		resolved = append(resolved, ResolvedMarker{Marker: m, Address: addr})
		if onProgress != nil {
			onProgress(i+1, len(markers))
		}
	}
	return resolved, nil
}
