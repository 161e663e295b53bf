package model

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// URL validation errors
var (
	ErrInvalidURL        = errors.New("invalid URL format")
	ErrUnsupportedScheme = errors.New("unsupported URL scheme - only HTTP and HTTPS are allowed")
	ErrPrivateIPBlocked  = errors.New("private IP addresses and localhost are blocked for security")
	ErrMissingHost       = errors.New("URL must have a valid host")
	ErrEmptyURL          = errors.New("URL cannot be empty")
)

// ValidateFeedURL checks that rawURL is an absolute HTTP(S) URL with a host.
// Unless allowPrivateIPs is set, hosts that are or resolve to loopback, private
// or link-local addresses are rejected.
func ValidateFeedURL(rawURL string, allowPrivateIPs bool) (*url.URL, error) {
	if rawURL == "" {
		return nil, ErrEmptyURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, ErrUnsupportedScheme
	}

	if u.Hostname() == "" {
		return nil, ErrMissingHost
	}

	if !allowPrivateIPs {
		if err := validateHost(u.Hostname()); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// validateHost rejects localhost names and hosts resolving to internal addresses.
// Hosts that cannot be resolved are accepted and left to fail at request time.
func validateHost(hostname string) error {
	hostname = strings.ToLower(hostname)

	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return ErrPrivateIPBlocked
	}

	if addr, err := netip.ParseAddr(hostname); err == nil {
		if isPrivateAddr(addr) {
			return ErrPrivateIPBlocked
		}
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil
	}

	for _, ip := range ips {
		if addr, ok := netip.AddrFromSlice(ip); ok && isPrivateAddr(addr) {
			return ErrPrivateIPBlocked
		}
	}

	return nil
}

func isPrivateAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
