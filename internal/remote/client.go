package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/domain"
	"bakehouse/internal/dto"
	apperrors "bakehouse/internal/errors"
)

const (
	opList         = "list"
	opCreate       = "create"
	opUpdateStatus = "update-status"
)

// Client talks to the remote order store. Every failure, including non-2xx
// answers, comes back as a RemoteUnavailableError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) List(ctx context.Context) ([]domain.RemoteOrder, error) {
	var payload []dto.RemoteOrder
	if err := c.do(ctx, opList, http.MethodGet, "/api/orders", nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]domain.RemoteOrder, len(payload))
	for i, p := range payload {
		orders[i] = p.ToDomain()
	}
	return orders, nil
}

func (c *Client) Create(ctx context.Context, order domain.RemoteOrder) (domain.RemoteOrder, error) {
	var created dto.RemoteOrder
	if err := c.do(ctx, opCreate, http.MethodPost, "/api/orders", dto.FromRemoteOrder(order), &created); err != nil {
		return domain.RemoteOrder{}, err
	}
	return created.ToDomain(), nil
}

func (c *Client) UpdateStatus(ctx context.Context, remoteID string, status domain.Status) (domain.RemoteOrder, error) {
	path := "/api/orders/" + url.PathEscape(remoteID)
	body := dto.UpdateStatusRequest{Status: string(status)}

	var updated dto.RemoteOrder
	if err := c.do(ctx, opUpdateStatus, http.MethodPut, path, body, &updated); err != nil {
		return domain.RemoteOrder{}, err
	}
	return updated.ToDomain(), nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.NewRemoteUnavailableError(op, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewRemoteUnavailableError(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("remote returned non-success",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return apperrors.NewRemoteUnavailableError(op, resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewRemoteUnavailableError(op, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
