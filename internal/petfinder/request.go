package petfinder

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"

	tokenPath     = "/oauth2/token"
	tokenCacheKey = "oauth:token"
	// Refresh slightly early so a token never expires mid-pagination.
	tokenExpirySlack = 60 * time.Second
)

type animalsResponse struct {
	Animals    []any `json:"animals"`
	Pagination struct {
		CountPerPage int `json:"count_per_page"`
		TotalCount   int `json:"total_count"`
		CurrentPage  int `json:"current_page"`
		TotalPages   int `json:"total_pages"`
	} `json:"pagination"`
}

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

// token returns a cached OAuth access token, requesting a fresh one via the
// client-credentials grant when needed.
func (c *Client) token() (string, error) {
	if cached, found := c.cache.Get(tokenCacheKey); found {
		return cached.(string), nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.APIURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.request(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request: bad status: %s", resp.Status)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	ttl := time.Duration(token.ExpiresIn)*time.Second - tokenExpirySlack
	if ttl <= 0 {
		ttl = time.Minute
	}
	c.cache.Set(tokenCacheKey, token.AccessToken, ttl)

	return token.AccessToken, nil
}

// GetAnimals makes authorized GET requests against the animals endpoint and
// returns the raw items from all pages.
func (c *Client) GetAnimals(endpoint string, q url.Values) ([]any, error) {
	var items []any

	page := 1
	for {
		response, err := c.getAnimalsPage(endpoint, q, page)
		if err != nil {
			return nil, err
		}

		items = append(items, response.Animals...)

		c.logger.Debug("got animals page",
			zap.Int("page", response.Pagination.CurrentPage),
			zap.Int("total_pages", response.Pagination.TotalPages),
			zap.Int("items", len(response.Animals)),
		)

		if len(response.Animals) == 0 || page >= response.Pagination.TotalPages {
			break
		}
		page++
	}

	return items, nil
}

func (c *Client) getAnimalsPage(endpoint string, q url.Values, page int) (*animalsResponse, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req, token)
	req.Header.Set("Content-Type", contentType)

	query := cloneValues(q)
	query.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = query.Encode()

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}

	var response animalsResponse
	if err := c.decodeResponse(resp, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// getJSON performs an authorized GET and decodes the body into target.
// A 404 sets target to nil via the notFound return.
func (c *Client) getJSON(endpoint string, q url.Values, target any) (notFound bool, err error) {
	token, err := c.token()
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	c.setHeaders(req, token)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return false, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return true, nil
	}

	return false, c.decodeResponse(resp, target)
}

func (c *Client) decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return nil, err
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
}

// decodeDogs converts raw items into typed Dog values.
func decodeDogs(items []any) (*Dogs, error) {
	var dogs []*Dog
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &dogs,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding animals: %w", err)
	}
	return &Dogs{Items: dogs}, nil
}

func cloneValues(q url.Values) url.Values {
	out := url.Values{}
	for key, values := range q {
		for _, v := range values {
			out.Add(key, v)
		}
	}
	return out
}
