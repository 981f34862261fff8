package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"simplemdm/internal/domain"
	"simplemdm/internal/logging"
)

// DefaultBaseURL is the public SimpleMDM API root.
const DefaultBaseURL = "https://a.simplemdm.com/api/v1"

// pageSize is the largest page the API serves.
const pageSize = 100

// ErrUnauthorized is matched by errors for 401 responses.
var ErrUnauthorized = errors.New("API key rejected")

// Error is a non-2xx response.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("simplemdm %s %s: %s", strings.ToLower(e.Method), e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Client talks to one SimpleMDM account.
type Client struct {
	Base string
	HTTP *http.Client
	key  domain.Credential
}

// New returns a client for base authenticated with key. A nil httpClient
// means http.DefaultClient.
func New(base string, key domain.Credential, httpClient *http.Client) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: httpClient, key: key}
}

// page is the envelope of every list response.
type page[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// single is the envelope of every single-resource response.
type single[T any] struct {
	Data T `json:"data"`
}

func (c *Client) ListDevices(ctx context.Context) ([]domain.Device, error) {
	return listAll(ctx, c, "/devices", 0, func(d domain.Device) domain.ID { return d.ID })
}

func (c *Client) GetDevice(ctx context.Context, id domain.ID) (domain.Device, error) {
	var out single[domain.Device]
	if err := c.getJSON(ctx, "/devices/"+url.PathEscape(id.String()), nil, &out); err != nil {
		return domain.Device{}, err
	}
	return out.Data, nil
}

func (c *Client) ListCustomAttributeValues(
	ctx context.Context,
	deviceID domain.ID,
) ([]domain.CustomAttributeValue, error) {
	var out page[domain.CustomAttributeValue]
	path := "/devices/" + url.PathEscape(deviceID.String()) + "/custom_attribute_values"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) ListInstalledApps(ctx context.Context, deviceID domain.ID) ([]domain.InstalledApp, error) {
	path := "/devices/" + url.PathEscape(deviceID.String()) + "/installed_apps"
	return listAll(ctx, c, path, 0, func(a domain.InstalledApp) domain.ID { return a.ID })
}

// ListLogs returns audit log entries, at most limit of them when limit > 0.
func (c *Client) ListLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return listAll(ctx, c, "/logs", limit, func(l domain.LogEntry) domain.ID { return l.ID })
}

// listAll follows has_more/starting_after until the listing is exhausted or
// limit items (when > 0) have been collected.
func listAll[T any](ctx context.Context, c *Client, path string, limit int, idOf func(T) domain.ID) ([]T, error) {
	var all []T
	after := domain.ID("")
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(pageSize))
		if after != "" {
			q.Set("starting_after", after.String())
		}

		var p page[T]
		if err := c.getJSON(ctx, path, q, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Data...)

		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if !p.HasMore || len(p.Data) == 0 {
			return all, nil
		}
		next := idOf(p.Data[len(p.Data)-1])
		if next == "" || next == after {
			return all, nil
		}
		after = next
	}
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.Base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.key.Reveal(), "")
	req.Header.Set("Accept", "application/json")

	logging.Debugf("GET %s", path)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &Error{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

var _ domain.MDMClient = (*Client)(nil)
