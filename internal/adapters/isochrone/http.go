package isochrone

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"isochrone-map-service/internal/domain"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// doJSON executes the request and converts any non-2xx response into an
// httpStatusError. Remote calls are bounded solely by the client's Timeout;
// adapters never retry, so one failed attempt is the worst case.
func doJSON(client *http.Client, req *http.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// ringFromCoords converts a GeoJSON polygon outer ring into domain
// coordinates, rejecting malformed vertex pairs.
func ringFromCoords(coords [][]float64) ([]domain.Coordinates, error) {
	if len(coords) < 4 {
		return nil, fmt.Errorf("polygon ring has %d vertices; need at least 4", len(coords))
	}

	ring := make([]domain.Coordinates, 0, len(coords))
	for i, pair := range coords {
		if len(pair) != 2 {
			return nil, fmt.Errorf("invalid coordinate pair at index %d", i)
		}
		ring = append(ring, domain.Coordinates{Lon: pair[0], Lat: pair[1]})
	}

	return ring, nil
}
