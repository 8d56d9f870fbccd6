package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler(t *testing.T) {
	ObserveFlight("euler-cromer", "time limit", 2*time.Millisecond, 441.1)
	ObserveInvalidRocket()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, exp := range []string{
		`rocketsim_flights_total{scheme="euler-cromer",termination="time limit"}`,
		"rocketsim_invalid_rockets_total",
		`rocketsim_flight_duration_seconds_bucket{scheme="euler-cromer"`,
		"rocketsim_apogee_meters_count",
	} {
		if !strings.Contains(string(body), exp) {
			t.Errorf("missing %s", exp)
		}
	}
}
