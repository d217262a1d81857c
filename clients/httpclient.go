package clients

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// NewHTTPClient builds the client used for outbound metadata lookups. The
// openlibrary ISBN endpoint answers with a redirect to the canonical book
// record, so a single redirect hop is allowed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          25,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 2 {
				return fmt.Errorf("attempted redirect to %s", req.URL)
			}
			return nil
		},
	}
}
