package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"adoptwatch/internal/codec"
	"adoptwatch/internal/models"
	"adoptwatch/internal/providers"
	"adoptwatch/internal/structures"
)

const (
	searchPath  = "AdoptableSearch"
	detailsPath = "AdoptableDetails"

	maxResponseBytes = 8 << 20
)

// Client talks to the remote search and detail endpoints over HTTP and
// decodes their XML.
type Client struct {
	base    *url.URL
	authKey string
	http    *http.Client
	logger  providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) (*Client, error) {
	base, err := url.Parse(conf.Fetch.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse fetch base url: %w", err)
	}
	timeout := conf.Fetch.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:    base,
		authKey: conf.Fetch.AuthKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *Client) FetchList(ctx context.Context, speciesID int) ([]models.Listing, error) {
	root, err := c.get(ctx, searchPath, url.Values{"speciesID": {strconv.Itoa(speciesID)}})
	if err != nil {
		return nil, err
	}
	nodes := root.find("adoptableSearch")
	raw := make([]any, len(nodes))
	for i, n := range nodes {
		raw[i] = n.record()
	}
	listings, dropped := codec.NormalizeList(raw, models.ListingCodec)
	if dropped > 0 {
		c.logger.Debugf(providers.TypeFetch, "species %d: dropped %d malformed listings", speciesID, dropped)
	}
	return listings, nil
}

func (c *Client) FetchDetail(ctx context.Context, id string) (models.Detail, error) {
	root, err := c.get(ctx, detailsPath, url.Values{"animalID": {id}})
	if err != nil {
		return models.Detail{}, err
	}
	nodes := root.find("adoptableDetails")
	if len(nodes) == 0 {
		return models.Detail{}, &Error{Status: http.StatusNotFound, Err: ErrNotFound}
	}
	detail, ok := models.NormalizeDetail(nodes[0].record())
	if !ok {
		return models.Detail{}, &Error{Status: http.StatusOK, Err: ErrBadPayload}
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (node, error) {
	u := c.base.JoinPath(path)
	query.Set("authkey", c.authKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return node{}, &Error{Err: err}
	}
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warnf(providers.TypeFetch, "GET %s: %v", path, err)
		return node{}, &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warnf(providers.TypeFetch, "GET %s: status %d", path, resp.StatusCode)
		return node{}, &Error{Status: resp.StatusCode, Err: ErrBadStatus}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return node{}, &Error{Status: resp.StatusCode, Err: err}
	}
	root, err := decodeXML(body)
	if err != nil {
		return node{}, &Error{Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrBadPayload, err)}
	}
	c.logger.Debugf(providers.TypeFetch, "GET %s: %d bytes in %s", path, len(body), time.Since(start))
	return root, nil
}
