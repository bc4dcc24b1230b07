package interfaces

import "net/http"

// HTTPClient performs outbound HTTP requests. The webhook deliverer depends on
// this contract instead of a concrete client so hosts can supply their own
// transport (proxies, instrumentation, test doubles). *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
