package sgv

//unit tests

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testLocationsBody = `[
	{"name": "Site B", "hci_code": "B1", "vaccineType": "Moderna", "earliestSlot": "2021-06-05T01:00:00.000000Z"},
	{"name": "Site A", "hci_code": "A1", "vaccineType": "Pfizer/Comirnaty", "earliestSlot": null}
]`

const testAvailabilityBody = `{
	"2021-08-02": [{"id": "s1", "time": "2021-08-02T01:00:00.000000Z", "hasCapacity": true}],
	"2021-08-01": [
		{"id": "s2", "time": "2021-08-01T01:00:00.000000Z", "hasCapacity": false},
		{"id": "s3", "time": "2021-08-01T02:00:00.000000Z", "hasCapacity": true}
	]
}`

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(&Config{ApiUrl: server.URL, Timeout: 5, CacheTTL: 0})

	return client, server
}

func TestGetLocations(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/locations" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, testLocationsBody)
	}))
	defer server.Close()

	reference := time.Date(2021, 6, 4, 10, 0, 0, 0, time.UTC)
	locations, err := client.GetLocations(GroupMoeStudentBelow18, &reference)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}

	if len(locations) != 2 {
		t.Errorf("Expected 2 locations, got %d", len(locations))
		return
	}

	//source order preserved, no sorting in the client
	if locations[0].HciCode != "B1" || locations[1].HciCode != "A1" {
		t.Errorf("Expected source order B1, A1, got %s, %s", locations[0].HciCode, locations[1].HciCode)
		return
	}

	if locations[1].EarliestSlot != nil {
		t.Errorf("Expected nil earliest slot for A1, got %v", locations[1].EarliestSlot)
		return
	}

	expectedQuery := "startDate=2021-06-05&endDate=2021-10-02&patientGroupId=3"
	if gotQuery != expectedQuery {
		t.Errorf("Expected query %q, got %q", expectedQuery, gotQuery)
		return
	}

	//locations carry the client so they can fetch their own slots
	if locations[0].client != client {
		t.Errorf("Expected location to hold the client reference")
		return
	}
}

func TestGetDateSlotsOrder(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/availability/HCI123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("isFirstAppt") != "true" {
			t.Errorf("Expected isFirstAppt=true, got %s", r.URL.Query().Get("isFirstAppt"))
		}
		fmt.Fprint(w, testAvailabilityBody)
	}))
	defer server.Close()

	availability, err := client.GetDateSlots("HCI123", nil)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}

	dates := availability.Dates()
	if len(dates) != 2 {
		t.Errorf("Expected 2 dates, got %d", len(dates))
		return
	}
	if dates[0] != "2021-08-02" || dates[1] != "2021-08-01" {
		t.Errorf("Expected server key order preserved, got %v", dates)
		return
	}

	slots, exists := availability.Get("2021-08-01")
	if !exists || len(slots) != 2 {
		t.Errorf("Expected 2 slots for 2021-08-01, got %v", slots)
		return
	}
	if slots[0].Id == nil || *slots[0].Id != "s2" {
		t.Errorf("Expected per-key slot order preserved, got %v", slots[0].Id)
		return
	}
	if slots[0].HasCapacity {
		t.Errorf("Expected s2 to have no capacity")
		return
	}
}

func TestGetDateSlotsSecondDose(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("isFirstAppt") != "false" {
			t.Errorf("Expected isFirstAppt=false, got %s", query.Get("isFirstAppt"))
		}
		if query.Get("startDate") != "2021-07-16" || query.Get("endDate") != "2021-07-30" {
			t.Errorf("Expected second dose window, got %s - %s", query.Get("startDate"), query.Get("endDate"))
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	firstDoseDate := time.Date(2021, 6, 4, 0, 0, 0, 0, time.UTC)
	availability, err := client.GetDateSlots("HCI123", &firstDoseDate)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}

	//empty object is an empty mapping, not an error
	if availability.Len() != 0 {
		t.Errorf("Expected empty availability, got %d dates", availability.Len())
		return
	}
}

func TestGetLocationsTransportError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := client.GetLocations(GroupGeneral, nil)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Errorf("Expected TransportError, got %v", err)
		return
	}
	if transport.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status code 500, got %d", transport.StatusCode)
		return
	}
}

func TestGetLocationsMalformedResponse(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	_, err := client.GetLocations(GroupGeneral, nil)
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected MalformedResponseError, got %v", err)
		return
	}
}

func TestGetDateSlotsWrongShape(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["2021-08-01"]`)
	}))
	defer server.Close()

	_, err := client.GetDateSlots("HCI123", nil)
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Errorf("Expected MalformedResponseError, got %v", err)
		return
	}
}

func TestGetDateSlotsNormalizationError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"2021-08-01": [{"id": "s1"}]}`)
	}))
	defer server.Close()

	_, err := client.GetDateSlots("HCI123", nil)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Errorf("Expected MissingFieldError, got %v", err)
		return
	}
}

func TestFetchCaching(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(&Config{ApiUrl: server.URL, Timeout: 5, CacheTTL: 60})

	reference := time.Date(2021, 6, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := client.GetLocations(GroupGeneral, &reference); err != nil {
			t.Errorf("Expected nil error, got %v", err)
			return
		}
	}

	if requestCount != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requestCount)
		return
	}
}
