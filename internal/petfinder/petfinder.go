package petfinder

import (
	"context"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://api.petfinder.com/v2"
	userAgent = "dogmatch (github.com/dogfinder/dogmatch)"
	// Max value the animals endpoint accepts per page.
	perPage = "100"

	// The public API tolerates a handful of requests per second; pages for
	// several zip codes add up quickly, so stay polite.
	requestsPerSecond = 3
	requestBurst      = 3

	orgCacheTTL = time.Hour
)

// Client talks to the Petfinder v2 API.
type Client struct {
	// ctx used only for http requests right now
	ctx          context.Context
	clientID     string
	clientSecret string
	logger       *zap.Logger
	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string

	limiter *rate.Limiter
	cache   *gocache.Cache
}

// New creates the API client. Tokens and organization lookups are cached in
// memory for the lifetime of the client.
func New(ctx context.Context, logger *zap.Logger, clientID, clientSecret string) *Client {
	return &Client{
		ctx:          ctx,
		clientID:     clientID,
		clientSecret: clientSecret,
		APIURL:       apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		cache:     gocache.New(orgCacheTTL, 10*time.Minute),
	}
}

// Search returns adoptable dogs around a single location.
func (c *Client) Search(params *SearchParams) (*Dogs, error) {
	return c.search(params)
}

// SearchMany runs the search across several zip codes and merges the results,
// dropping listings already seen by id or fingerprint.
func (c *Client) SearchMany(zips []string, params *SearchParams) (*Dogs, error) {
	merged := &Dogs{}
	seenIDs := make(map[string]bool)
	seenPrints := make(map[string]bool)

	for _, zip := range zips {
		p := *params
		p.Location = zip

		dogs, err := c.search(&p)
		if err != nil {
			return nil, err
		}

		for _, dog := range dogs.Items {
			if dog.ID == "" || seenIDs[dog.ID] {
				continue
			}
			fp := dog.Fingerprint()
			if seenPrints[fp] {
				continue
			}
			seenIDs[dog.ID] = true
			seenPrints[fp] = true
			merged.Items = append(merged.Items, dog)
		}

		c.logger.Debug("merged search results",
			zap.String("zip", zip),
			zap.Int("zip_count", dogs.Len()),
			zap.Int("total", merged.Len()),
		)
	}

	return merged, nil
}

// GetDog fetches a single listing by id. Returns nil when it does not exist.
func (c *Client) GetDog(id string) (*Dog, error) {
	return c.getDog(id)
}

// GetOrganization fetches shelter details by id with a one hour cache.
// Returns nil when the organization does not exist.
func (c *Client) GetOrganization(id string) (*Organization, error) {
	return c.getOrganization(id)
}

// AttachOrganizations fills in shelter details for every listing, falling
// back to contact-derived names when the lookup fails.
func (c *Client) AttachOrganizations(dogs *Dogs) {
	for _, dog := range dogs.Items {
		if dog.Organization != nil {
			continue
		}
		if dog.OrganizationID != "" {
			if org, err := c.getOrganization(dog.OrganizationID); err == nil && org != nil {
				dog.Organization = org
				continue
			} else if err != nil {
				c.logger.Debug("organization lookup failed",
					zap.String("organization_id", dog.OrganizationID),
					zap.Error(err),
				)
			}
		}
		dog.Organization = organizationFromContact(dog)
	}
}
