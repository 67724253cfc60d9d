package payments

import (
	"bytes"
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

var (
	errBridgeURLRequired = errors.New("wallet bridge URL is required")
	errBridgeLoggerNil   = errors.New("wallet bridge logger is required")
)

// BridgeClient talks to the wallet bridge gateway over HTTP. It centralizes
// auth headers, logging, and error mapping so callers only see domain errors.
type BridgeClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logger.Logger
}

// NewBridgeClient validates the wallet configuration and builds the client.
func NewBridgeClient(cfg config.WalletConfig, logg *logger.Logger) (*BridgeClient, error) {
	if logg == nil {
		return nil, errBridgeLoggerNil
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BridgeURL), "/")
	if baseURL == "" {
		return nil, errBridgeURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid wallet bridge URL: %w", err)
	}

	return &BridgeClient{
		httpClient: &http.Client{Timeout: cfg.CommandTimeout},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logg,
	}, nil
}

type bridgeCommandResponse struct {
	CommandID string `json:"commandId"`
	Reference string `json:"reference"`
}

type bridgeTransactionResponse struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
}

type bridgeErrorResponse struct {
	Message string `json:"message"`
}

// Invoke asks the user's wallet to execute a payment command. The wallet only
// acknowledges acceptance here; the signed result arrives later through the
// confirm endpoint.
func (c *BridgeClient) Invoke(ctx context.Context, command PaymentCommand) (*Invocation, error) {
	c.log(ctx, "request", "invoke_payment", map[string]any{
		"reference": command.Reference,
		"recipient": command.RecipientAddress,
		"tokens":    len(command.Tokens),
	})

	var out bridgeCommandResponse
	if err := c.do(ctx, http.MethodPost, "/v1/commands/pay", command, &out); err != nil {
		c.log(ctx, "error", "invoke_payment", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "invoke_payment", map[string]any{"command_id": out.CommandID})
	return &Invocation{CommandID: out.CommandID, Reference: out.Reference}, nil
}

// VerifyTransaction checks the bridge's own ledger for the reported
// transaction and rejects it when the reference or status disagrees.
func (c *BridgeClient) VerifyTransaction(ctx context.Context, transactionID, reference string) error {
	c.log(ctx, "request", "verify_transaction", map[string]any{"transaction_id": transactionID})

	var out bridgeTransactionResponse
	path := "/v1/transactions/" + url.PathEscape(transactionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		c.log(ctx, "error", "verify_transaction", map[string]any{"error": err.Error()})
		return err
	}

	if out.Reference != reference {
		return fmt.Errorf("transaction %s carries reference %q", transactionID, out.Reference)
	}
	if !strings.EqualFold(out.Status, "success") {
		return fmt.Errorf("transaction %s has status %q on the ledger", transactionID, out.Status)
	}

	c.log(ctx, "response", "verify_transaction", map[string]any{"status": out.Status})
	return nil
}

func (c *BridgeClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wallet bridge request")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build wallet bridge request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wallet bridge unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return pkgerrors.New(pkgerrors.CodeDependency, "wallet bridge unavailable").WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wallet bridge resource not found")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var bridgeErr bridgeErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&bridgeErr)
		msg := bridgeErr.Message
		if msg == "" {
			msg = "wallet bridge rejected the request"
		}
		return pkgerrors.New(pkgerrors.CodeDependency, msg).WithDetails(map[string]any{
			"status": resp.StatusCode,
		})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode wallet bridge response")
	}
	return nil
}

func (c *BridgeClient) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("wallet bridge %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("wallet bridge %s", phase))
	}
}
