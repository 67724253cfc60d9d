package chainsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/relieffund/relieffund-backend/pkg/config"
	pkgerrors "github.com/relieffund/relieffund-backend/pkg/errors"
	"github.com/relieffund/relieffund-backend/pkg/logger"
)

var errGatewayURLRequired = errors.New("chain gateway URL is required")

// GatewayClient reads the registries from the chain read gateway over HTTP.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

// NewGatewayClient validates the chain configuration and builds the client.
func NewGatewayClient(cfg config.ChainConfig, logg *logger.Logger) (*GatewayClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.GatewayURL), "/")
	if baseURL == "" {
		return nil, errGatewayURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid chain gateway URL: %w", err)
	}
	return &GatewayClient{
		httpClient: &http.Client{Timeout: cfg.ReadTimeout},
		baseURL:    baseURL,
		logg:       logg,
	}, nil
}

// Disasters fetches the disaster registry.
func (c *GatewayClient) Disasters(ctx context.Context) ([]ChainDisaster, error) {
	var out []ChainDisaster
	if err := c.get(ctx, "/v1/disasters", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Campaigns fetches one disaster's campaigns.
func (c *GatewayClient) Campaigns(ctx context.Context, disasterID string) ([]ChainCampaign, error) {
	var out []ChainCampaign
	path := "/v1/disasters/" + url.PathEscape(disasterID) + "/campaigns"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GatewayClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build chain gateway request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "chain gateway unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, "chain gateway request failed").WithDetails(map[string]any{
			"status": resp.StatusCode,
			"path":   path,
		})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode chain gateway response")
	}
	return nil
}
