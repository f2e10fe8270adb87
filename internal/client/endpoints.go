package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dm/dfsmon/internal/model"
)

const (
	endpointLogin    = "/auth/login"
	endpointSnapshot = "/monitoring/snapshot"
)

// Login exchanges username and password for a session token via
// POST /auth/login. Any failure is returned as *AuthError.
func (c *DefaultClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", &AuthError{Message: "Login failed", Err: err}
	}

	status, data, err := c.do(ctx, http.MethodPost, endpointLogin, body, nil)
	if err != nil {
		return "", &AuthError{Message: "Login failed", Err: err}
	}

	var resp LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		if status < 200 || status >= 300 {
			return "", &AuthError{Message: "Login failed", Err: fmt.Errorf("unexpected status %d: %s", status, truncate(data, 200))}
		}
		return "", &AuthError{Message: "Login failed", Err: fmt.Errorf("decode response: %w", err)}
	}

	switch {
	case resp.Token != nil && *resp.Token != "":
		return *resp.Token, nil
	case resp.Error != nil:
		return "", &AuthError{Message: *resp.Error}
	default:
		return "", &AuthError{Message: "Login failed", Err: fmt.Errorf("unexpected login response: %s", truncate(data, 200))}
	}
}

// GetSnapshot fetches the current cluster snapshot from /monitoring/snapshot.
// The token is sent verbatim in the Authorization header, without a scheme.
// Any failure is returned as *PollTransportError.
func (c *DefaultClient) GetSnapshot(ctx context.Context, token string) (*model.Snapshot, error) {
	header := http.Header{}
	header.Set("Authorization", token)

	status, data, err := c.do(ctx, http.MethodGet, endpointSnapshot, nil, header)
	if err != nil {
		return nil, &PollTransportError{StatusCode: status, Err: err}
	}
	if status < 200 || status >= 300 {
		var detail error
		if len(data) > 0 {
			detail = errors.New(truncate(data, 200))
		}
		return nil, &PollTransportError{StatusCode: status, Err: detail}
	}

	snap, err := decodeSnapshot(data, c.now())
	if err != nil {
		return nil, &PollTransportError{Err: err}
	}
	return snap, nil
}
