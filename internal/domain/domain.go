// Package domain derives the registered domain (eTLD+1) of a URL. It is the
// input gate run before any network round trip.
package domain

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ErrNoRegisteredDomain is returned when no registered domain can be derived
// from the input.
var ErrNoRegisteredDomain = errors.New("no registered domain")

// Registered returns the public-suffix-aware registered domain of rawURL,
// e.g. "https://www.example.co.uk/a" -> "example.co.uk".
//
// Inputs without a scheme are accepted ("example.com/path"); the host is read
// from the leading host-like segment. IP literals, single-label hosts such as
// "localhost", and hosts under a TLD missing from the public suffix list have
// no registered domain. Private list entries are ignored, so
// "foo.blogspot.com" -> "blogspot.com".
func Registered(rawURL string) (string, error) {
	host, err := hostOf(rawURL)
	if err != nil {
		return "", err
	}
	if net.ParseIP(host) != nil {
		return "", fmt.Errorf("%w: ip address %q", ErrNoRegisteredDomain, host)
	}
	labels := strings.Split(host, ".")
	for i := range labels {
		if labels[i] == "" {
			return "", fmt.Errorf("%w: empty label in %q", ErrNoRegisteredDomain, host)
		}
	}
	// Only ICANN suffixes count: a private entry such as "github.io" is itself
	// a registered domain under "io".
	for i := range labels {
		s := strings.Join(labels[i:], ".")
		if suffix, icann := publicsuffix.PublicSuffix(s); icann && suffix == s {
			if i == 0 {
				return "", fmt.Errorf("%w: %q is a public suffix", ErrNoRegisteredDomain, host)
			}
			return labels[i-1] + "." + s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown suffix in %q", ErrNoRegisteredDomain, host)
}

func hostOf(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("%w: empty url", ErrNoRegisteredDomain)
	}
	if !strings.Contains(s, "://") && !strings.HasPrefix(s, "//") {
		s = "//" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoRegisteredDomain, err)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("%w: url is missing a host", ErrNoRegisteredDomain)
	}
	return host, nil
}
