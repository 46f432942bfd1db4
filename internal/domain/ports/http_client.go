package ports

import "net/http"

// HTTPClient abstracts *http.Client for adapters, allowing tests to
// inject transports and failures.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
