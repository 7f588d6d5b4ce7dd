package util

import (
	"net/http"
	"net/url"
	"time"
)

// NewProxyFunc creates a proxy function from explicit proxy URLs.
// If none are provided, falls back to environment variables.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient builds an HTTP client with the given timeout and proxy
// settings, capping redirects so a scan cannot be bounced around forever.
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy string, maxRedirects int) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(httpProxy, httpsProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}
