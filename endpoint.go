package sgv

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const EndpointDefaultTimeout = 10 //seconds
const FetchCacheDefaultTTL = 60   //seconds

// Endpoint is a GET endpoint of the booking API. Failures surface as
// *TransportError, undecodable bodies as *MalformedResponseError.
type Endpoint struct {
	Url                string
	Headers            []Header
	AllowedStatusCodes []int
	HttpClient         *http.Client
	Timeout            int
}

type Header struct {
	Name  string
	Value string
}

func (endpoint *Endpoint) Fetch(name string) ([]byte, error) {
	client := endpoint.HttpClient
	if client == nil {
		timeout := endpoint.Timeout
		if timeout <= 0 {
			timeout = EndpointDefaultTimeout
		}

		client = &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
			Transport: &http.Transport{
				DisableKeepAlives: false,
			},
		}
	}

	req, err := http.NewRequest("GET", endpoint.Url, nil)
	if err != nil {
		return nil, &TransportError{Url: endpoint.Url, Err: err}
	}

	for _, header := range endpoint.Headers {
		req.Header.Add(header.Name, header.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		Log.Debugf("WARNING: Error during fetch: %v", err)
		return nil, &TransportError{Url: endpoint.Url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Url: endpoint.Url, Err: err}
	}

	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		Log.Debug("Decompressing gzipped content...")

		gzReader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, &MalformedResponseError{Url: endpoint.Url, Err: err}
		}

		body, err = io.ReadAll(gzReader)
		if err != nil {
			return nil, &MalformedResponseError{Url: endpoint.Url, Err: err}
		}
	}

	Log.Debugf("%s: fetched %d bytes with status code %d from %s", name, len(body), resp.StatusCode, endpoint.Url)

	if resp.StatusCode/100 != 2 {
		allowed := false
		for _, code := range endpoint.AllowedStatusCodes {
			if resp.StatusCode == code {
				allowed = true
			}
		}

		if !allowed {
			preview := body
			if len(preview) > 128 {
				preview = preview[:128]
			}
			Log.Warnf("%s: Status code: %d, %s", name, resp.StatusCode, string(preview))
			return body, &TransportError{Url: endpoint.Url, StatusCode: resp.StatusCode}
		}
	}

	return body, nil
}

func (endpoint *Endpoint) FetchCached(name string) (body []byte, cacheMiss bool, err error) {
	return endpoint.FetchCachedWithTTL(name, FetchCacheDefaultTTL)
}

func (endpoint *Endpoint) FetchCachedWithTTL(name string, ttl int64) (body []byte, cacheMiss bool, err error) {
	key := fmt.Sprintf("%s|%d", endpoint.Url, ttl)

	body, ok := Cache.GetOrLock(key).([]byte)

	if !ok || body == nil {
		defer Cache.Unlock(key)
		body, err := endpoint.Fetch(name)
		if err != nil {
			return body, true, err
		}
		Cache.Put(key, body, ttl)

		return body, true, nil
	}

	return body, false, nil
}
