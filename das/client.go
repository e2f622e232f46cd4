/*
Package das implements the client for the digital-asset index service
(a Helius-style DAS JSON-RPC API).

All read operations are idempotent and are retried on transient failures
(transport errors, 429 and 5xx responses) up to two extra attempts with
exponential backoff. Credential rejections and other 4xx-equivalent
failures propagate immediately.
*/
package das

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohtashimnawaz/fractionalization/asset"
	"github.com/mohtashimnawaz/fractionalization/proof"
)

const (
	defaultMaxRetries = 2
	defaultRetryBase  = 1 * time.Second
	defaultRetryCap   = 5 * time.Second

	// listPageLimit caps one owner listing request. The index paginates
	// beyond this; wallets holding more compressed assets than the limit
	// are out of scope for the wizard.
	listPageLimit = 1000
)

type (
	Client struct {
		endpoint   string
		hc         *http.Client
		log        *zap.Logger
		maxRetries int
		retryBase  time.Duration
		retryCap   time.Duration
	}

	Option func(*Client)

	// MintParams is the input of the service-side mint operation. The
	// credential backing the call is server-held and never reaches clients.
	MintParams struct {
		Name        string
		Symbol      string
		Owner       string
		Description string
		ImageURL    string
	}

	// MintResult reports a service-side mint. The asset becomes queryable
	// only after the index catches up (~10-20s observed).
	MintResult struct {
		Signature string
		AssetID   string
	}
)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRetryPolicy overrides the backoff schedule, mainly for tests.
func WithRetryPolicy(maxRetries int, base, cap time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBase = base
		c.retryCap = cap
	}
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		hc:         &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
		maxRetries: defaultMaxRetries,
		retryBase:  defaultRetryBase,
		retryCap:   defaultRetryCap,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("das")
	return c
}

// ListAssetsByOwner returns the owner's compressed assets. An owner with no
// compressed holdings yields an empty slice, not an error.
func (c *Client) ListAssetsByOwner(ctx context.Context, owner string) ([]asset.Asset, error) {
	if owner == "" {
		return nil, errors.New("owner address is required")
	}
	var page rawAssetPage
	err := c.call(ctx, "getAssetsByOwner", map[string]any{
		"ownerAddress": owner,
		"page":         1,
		"limit":        listPageLimit,
		"displayOptions": map[string]any{
			"showFungible":      false,
			"showNativeBalance": false,
		},
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("listing assets of %s: %w", owner, err)
	}

	assets := make([]asset.Asset, 0, len(page.Items))
	for _, item := range page.Items {
		if !item.Compression.Compressed {
			continue
		}
		assets = append(assets, item.toAsset())
	}
	c.log.Debug("listed assets",
		zap.String("owner", owner),
		zap.Uint64("total", page.Total),
		zap.Int("compressed", len(assets)))
	return assets, nil
}

func (c *Client) GetAsset(ctx context.Context, assetID string) (*asset.Asset, error) {
	if assetID == "" {
		return nil, errors.New("asset id is required")
	}
	var raw rawAsset
	if err := c.call(ctx, "getAsset", map[string]any{"id": assetID}, &raw); err != nil {
		return nil, fmt.Errorf("fetching asset %s: %w", assetID, err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("asset %s: %w", assetID, ErrNotFound)
	}
	res := raw.toAsset()
	return &res, nil
}

// GetAssetProof fetches a fresh inclusion proof for the asset. Proofs go
// stale on any concurrent write to the tree, so the result must be used
// immediately and never cached across a signing step.
func (c *Client) GetAssetProof(ctx context.Context, assetID string) (*proof.AuthenticationProof, error) {
	if assetID == "" {
		return nil, errors.New("asset id is required")
	}
	var raw rawProof
	if err := c.call(ctx, "getAssetProof", map[string]any{"id": assetID}, &raw); err != nil {
		return nil, fmt.Errorf("fetching proof for %s: %w", assetID, err)
	}
	if raw.TreeID == "" || raw.Root == "" {
		return nil, fmt.Errorf("asset %s: %w", assetID, ErrProofUnavailable)
	}
	return raw.toProof(), nil
}

// MintCompressedNFT mints through the index service's mint API. The service
// pays and signs; no wallet signature is involved.
func (c *Client) MintCompressedNFT(ctx context.Context, params MintParams) (*MintResult, error) {
	description := params.Description
	if description == "" {
		description = fmt.Sprintf("A compressed NFT: %s", params.Name)
	}
	imageURL := params.ImageURL
	if imageURL == "" {
		imageURL = "https://arweave.net/placeholder-image"
	}
	var raw rawMintResult
	err := c.call(ctx, "mintCompressedNft", map[string]any{
		"name":        params.Name,
		"symbol":      params.Symbol,
		"owner":       params.Owner,
		"description": description,
		"attributes": []asset.Attribute{
			{TraitType: "Type", Value: "Compressed NFT"},
			{TraitType: "Created", Value: time.Now().UTC().Format(time.RFC3339)},
		},
		"imageUrl":             imageURL,
		"externalUrl":          "",
		"sellerFeeBasisPoints": 500,
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("minting %q: %w", params.Name, err)
	}
	return &MintResult{Signature: raw.Signature, AssetID: raw.AssetID}, nil
}

// call issues one JSON-RPC request with the retry policy applied.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			c.log.Debug("retrying index call",
				zap.String("method", method),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err := c.callOnce(ctx, method, params, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrIndexUnavailable) {
			return err
		}
	}
	return lastErr
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryBase << (attempt - 1)
	if delay > c.retryCap {
		delay = c.retryCap
	}
	return delay
}

func (c *Client) callOnce(ctx context.Context, method string, params, result any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "das-client",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", ErrIndexAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d", ErrIndexUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("index service returned HTTP %d", resp.StatusCode)
	}

	// Read failures are transport problems and retryable; a body that was
	// read whole but does not parse is a service bug and is not.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrIndexUnavailable, err)
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decoding %s response: %v", method, err)
	}
	if envelope.Error != nil {
		return c.mapRPCError(method, envelope.Error)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

func (c *Client) mapRPCError(method string, rpcErr *rpcError) error {
	msg := strings.ToLower(rpcErr.Message)
	switch {
	case strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist"):
		if method == "getAssetProof" {
			return fmt.Errorf("%w: %s", ErrProofUnavailable, rpcErr.Message)
		}
		return fmt.Errorf("%w: %s", ErrNotFound, rpcErr.Message)
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key"):
		return fmt.Errorf("%w: %s", ErrIndexAuth, rpcErr.Message)
	default:
		return fmt.Errorf("index error %d: %s", rpcErr.Code, rpcErr.Message)
	}
}
