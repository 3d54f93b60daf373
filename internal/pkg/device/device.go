// Package device talks to the get/ and set/ endpoints of the bakeout web app.
package device

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

var (
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

const maxBodySize = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, insecureSkipVerify bool) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("device base url %q must be http or https", baseURL)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureSkipVerify}
	return &Client{
		baseURL: strings.TrimSuffix(u.String(), "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		logger:  zap.L(), // returns the global logger.
	}, nil
}

// GetAll fetches every channel, `{"1": [ts, value], ...}`.
func (c *Client) GetAll(ctx context.Context) (model.ReadResponse, error) {
	return c.read(ctx, "get/all")
}

// Get fetches one channel, `[ts, value, name]`.
func (c *Client) Get(ctx context.Context, codename string) (model.ReadResponse, error) {
	return c.read(ctx, "get/"+url.PathEscape(codename))
}

// Set asks the device to change setpoints. The reply is the name of the channel that was
// set.
func (c *Client) Set(ctx context.Context, values map[string]float64) (string, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	body, err := c.get(ctx, "set/"+url.QueryEscape(string(payload)))
	if err != nil {
		return "", err
	}
	ack := strings.TrimSpace(string(body))
	var name string
	if err := json.Unmarshal([]byte(ack), &name); err == nil {
		return name, nil
	}
	return ack, nil
}

func (c *Client) read(ctx context.Context, path string) (model.ReadResponse, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return model.ReadResponse{}, err
	}
	res := model.ReadResponse{}
	if err := json.Unmarshal(body, &res); err != nil {
		return model.ReadResponse{}, fmt.Errorf("%w from %s: %w", ErrMalformedResponse, path, err)
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("getting json content", zap.String("url", req.URL.String()))
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, res.StatusCode, path)
	}
	return data, nil
}
