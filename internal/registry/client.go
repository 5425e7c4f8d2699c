package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"tmm/internal/domain"
	"tmm/internal/logging"
)

// DefaultBaseURL is the public registry host.
const DefaultBaseURL = "https://thunderstore.io"

// Client fetches package listings from the registry. The core treats the
// result as immutable until the next fetch.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a registry client. An empty baseURL uses the public
// registry.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetTimeout(2 * time.Minute).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second),
		baseURL: baseURL,
	}
}

// packageListing is the wire format of one listing entry.
type packageListing struct {
	Owner        string           `json:"owner"`
	Name         string           `json:"name"`
	UUID4        uuid.UUID        `json:"uuid4"`
	Categories   []string         `json:"categories"`
	IsDeprecated bool             `json:"is_deprecated"`
	IsPinned     bool             `json:"is_pinned"`
	Versions     []packageVersion `json:"versions"`
}

type packageVersion struct {
	UUID4         uuid.UUID `json:"uuid4"`
	VersionNumber string    `json:"version_number"`
	FullName      string    `json:"full_name"`
	Dependencies  []string  `json:"dependencies"`
	DownloadURL   string    `json:"download_url"`
	FileSize      int64     `json:"file_size"`
	Description   string    `json:"description"`
	WebsiteURL    string    `json:"website_url"`
}

// FetchIndex downloads the package listing for a community and builds an
// index snapshot from it.
func (c *Client) FetchIndex(ctx context.Context, community string) (*Index, error) {
	log := logging.GetLogger("registry")
	start := time.Now()

	var listings []packageListing
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&listings).
		Get(fmt.Sprintf("%s/c/%s/api/v1/package/", c.baseURL, community))
	if err != nil {
		return nil, fmt.Errorf("fetching package listing: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching package listing: unexpected status %s", resp.Status())
	}

	packages := make([]domain.Package, len(listings))
	for i, listing := range listings {
		packages[i] = domain.Package{
			Owner:        listing.Owner,
			Name:         listing.Name,
			UUID:         listing.UUID4,
			Categories:   listing.Categories,
			IsDeprecated: listing.IsDeprecated,
			IsPinned:     listing.IsPinned,
			Versions:     make([]domain.PackageVersion, len(listing.Versions)),
		}
		for j, ver := range listing.Versions {
			packages[i].Versions[j] = domain.PackageVersion{
				UUID:          ver.UUID4,
				VersionNumber: ver.VersionNumber,
				FullName:      ver.FullName,
				Dependencies:  ver.Dependencies,
				DownloadURL:   ver.DownloadURL,
				FileSize:      ver.FileSize,
				Description:   ver.Description,
				WebsiteURL:    ver.WebsiteURL,
			}
		}
	}

	log.Debug().
		Int("packages", len(packages)).
		Dur("elapsed", time.Since(start)).
		Str("community", community).
		Msg("fetched package listing")

	return NewIndex(packages), nil
}
