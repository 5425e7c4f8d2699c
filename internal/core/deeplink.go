package core

import (
	"fmt"
	"net/url"
	"strings"

	"tmm/internal/domain"
)

// DeepLinkScheme is the custom URL scheme the manager registers with the
// desktop so mod pages can trigger one-click installs.
const DeepLinkScheme = "tmm"

// DeepLink identifies a single mod version requested through a one-click
// install URL of the form tmm://v1/install/<host>/<owner>/<name>/<version>.
type DeepLink struct {
	Host    string
	Owner   string
	Name    string
	Version string
}

// ParseDeepLink validates and decomposes a one-click install URL. Any
// structural problem yields ErrMalformedLink; whether the mod actually
// exists is left to index resolution.
func ParseDeepLink(raw string) (DeepLink, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return DeepLink{}, fmt.Errorf("%w: %s", domain.ErrMalformedLink, raw)
	}
	if u.Scheme != DeepLinkScheme {
		return DeepLink{}, fmt.Errorf("%w: unexpected scheme %q", domain.ErrMalformedLink, u.Scheme)
	}
	if u.Host != "v1" {
		return DeepLink{}, fmt.Errorf("%w: unsupported version %q", domain.ErrMalformedLink, u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 5 || parts[0] != "install" {
		return DeepLink{}, fmt.Errorf("%w: %s", domain.ErrMalformedLink, raw)
	}

	link := DeepLink{
		Host:    parts[1],
		Owner:   parts[2],
		Name:    parts[3],
		Version: parts[4],
	}
	if link.Host == "" || link.Owner == "" || link.Name == "" || link.Version == "" {
		return DeepLink{}, fmt.Errorf("%w: %s", domain.ErrMalformedLink, raw)
	}
	return link, nil
}
