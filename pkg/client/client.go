package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client communicates with the thermoreg daemon over its unix socket.
// Requests and responses are JSON: callers pass typed payloads and
// decode into typed results instead of shuttling raw strings around.
type Client struct {
	socketPath string
	httpClient *http.Client
}

// NewClient creates a Client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
					conn, err := net.Dial("unix", socketPath)
					if err != nil {
						if os.IsNotExist(err) {
							return nil, ErrDaemonNotRunning
						}
						if os.IsPermission(err) {
							return nil, ErrPermissionDenied
						}
						logrus.Errorf("failed to connect to unix socket: %v", err)
						return nil, err
					}
					return conn, err
				},
			},
		},
	}
}

// Send sends a request to the daemon. A non-nil body is marshaled as
// the JSON request payload; a non-nil out receives the decoded JSON
// response.
func (c *Client) Send(method string, path string, body any, out any) error {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"unix":   c.socketPath,
	}).Debug("sending request")

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, "http://unix"+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("got %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// Get sends a GET request and decodes the response into out.
func (c *Client) Get(path string, out any) error {
	return c.Send(http.MethodGet, path, nil, out)
}

// Put sends a PUT request with a JSON body and decodes the response
// into out.
func (c *Client) Put(path string, body any, out any) error {
	return c.Send(http.MethodPut, path, body, out)
}

// Post sends a POST request with a JSON body and decodes the response
// into out.
func (c *Client) Post(path string, body any, out any) error {
	return c.Send(http.MethodPost, path, body, out)
}
