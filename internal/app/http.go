package app

import (
	"net"
	"net/http"
	"time"
)

// newFetchHTTPClient returns the client used for upstream page fetches. The
// overall deadline is applied per request by fetch.Client, so the client
// itself carries no Timeout; only dial and handshake phases are bounded here.
// Redirects follow net/http defaults.
func newFetchHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}
