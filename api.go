package sgv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const RouteBase = "https://appointment.vaccine.gov.sg/api/v1"

const routeLocations = "%s/locations?startDate=%s&endDate=%s&patientGroupId=%d"
const routeAvailability = "%s/availability/%s?startDate=%s&endDate=%s&isFirstAppt=%t"

//declared by the API, not queried by this client
const routeAppointment = "%s/appointments/%s/%s"

// Client issues the read-only booking API queries. Construct one and share
// it; it carries no state beyond the reusable http.Client and is meant for
// sequential use.
type Client struct {
	BaseUrl  string
	CacheTTL int64

	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	client := new(Client)
	client.BaseUrl = RouteBase
	client.CacheTTL = FetchCacheDefaultTTL

	timeout := EndpointDefaultTimeout

	if config != nil {
		if len(config.ApiUrl) > 0 {
			client.BaseUrl = config.ApiUrl
		}
		if config.Timeout > 0 {
			timeout = config.Timeout
		}
		if config.CacheTTL >= 0 {
			client.CacheTTL = config.CacheTTL
		}
	}

	client.httpClient = &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
		Transport: &http.Transport{
			DisableKeepAlives: false,
		},
	}

	return client
}

func (c *Client) fetch(name string, url string) ([]byte, error) {
	endpoint := &Endpoint{
		Url:        url,
		HttpClient: c.httpClient,
	}

	if c.CacheTTL > 0 {
		body, _, err := endpoint.FetchCachedWithTTL(name, c.CacheTTL)
		return body, err
	}

	return endpoint.Fetch(name)
}

// GetLocations lists the vaccination sites open to a group. Group queries
// always use the first-dose window; reference is nil outside of tests.
// Source order is preserved, sorting is the caller's concern.
func (c *Client) GetLocations(group Group, reference *time.Time) ([]*Location, error) {
	start, end := DateWindow(reference, true)
	url := fmt.Sprintf(routeLocations, c.BaseUrl, start, end, int(group))

	body, err := c.fetch("GetLocations", url)
	if err != nil {
		return nil, err
	}

	var rawLocations []map[string]interface{}
	if err := json.Unmarshal(body, &rawLocations); err != nil {
		dumpOutput("GetLocations", "", body)
		return nil, &MalformedResponseError{Url: url, Err: err}
	}

	locations := make([]*Location, 0, len(rawLocations))
	for _, raw := range rawLocations {
		location, err := BuildLocation(raw, c)
		if err != nil {
			dumpOutput("GetLocations", "", body)
			return nil, err
		}

		locations = append(locations, location)
	}

	Log.Debugf("GetLocations: %d location(s) for group %d", len(locations), int(group))

	return locations, nil
}

// GetDateSlots lists a site's open slots keyed by date. A nil firstDoseDate
// means booking a first dose; a non-nil one selects the second-dose window
// counted from that date. An empty response body `{}` is an empty
// Availability, not an error.
func (c *Client) GetDateSlots(hciCode string, firstDoseDate *time.Time) (*Availability, error) {
	firstDose := firstDoseDate == nil
	start, end := DateWindow(firstDoseDate, firstDose)
	url := fmt.Sprintf(routeAvailability, c.BaseUrl, hciCode, start, end, firstDose)

	body, err := c.fetch("GetDateSlots", url)
	if err != nil {
		return nil, err
	}

	availability, err := decodeAvailability(url, body)
	if err != nil {
		dumpOutput("GetDateSlots", hciCode, body)
		return nil, err
	}

	Log.Debugf("GetDateSlots: %d date(s) for %s", availability.Len(), hciCode)

	return availability, nil
}

// decodeAvailability walks the token stream instead of unmarshalling into a
// map, so the server's date ordering survives.
func decodeAvailability(url string, body []byte) (*Availability, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))

	token, err := decoder.Token()
	if err != nil {
		return nil, &MalformedResponseError{Url: url, Err: err}
	}

	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, &MalformedResponseError{Url: url, Err: fmt.Errorf("Expecting a JSON object, got '%v' instead", token)}
	}

	availability := newAvailability()

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, &MalformedResponseError{Url: url, Err: err}
		}

		date, ok := keyToken.(string)
		if !ok {
			return nil, &MalformedResponseError{Url: url, Err: fmt.Errorf("Expecting a string key, got '%v' instead", keyToken)}
		}

		var rawSlots []map[string]interface{}
		if err := decoder.Decode(&rawSlots); err != nil {
			return nil, &MalformedResponseError{Url: url, Err: err}
		}

		slots := make([]*TimeSlot, 0, len(rawSlots))
		for _, raw := range rawSlots {
			slot, err := BuildTimeSlot(raw)
			if err != nil {
				return nil, err
			}

			slots = append(slots, slot)
		}

		availability.add(date, slots)
	}

	return availability, nil
}
