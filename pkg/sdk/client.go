// Package sdk provides the client-side library for the Kada Commute daemon:
// an HTTP client for the attendance API and a TCP tail for the log stream.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// Client talks to the daemon's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for a base URL such as "http://localhost:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Login resolves an employee by exact name.
func (c *Client) Login(ctx context.Context, name string) (schema.Employee, error) {
	var emp schema.Employee
	err := c.do(ctx, http.MethodPost, "/api/login", schema.LoginRequest{Name: name}, &emp)
	return emp, err
}

// CheckIn records the start of a working day.
func (c *Client) CheckIn(ctx context.Context, req schema.CheckInRequest) error {
	return c.do(ctx, http.MethodPost, "/api/check-in", req, nil)
}

// CheckOut closes the day's record.
func (c *Client) CheckOut(ctx context.Context, req schema.CheckOutRequest) error {
	return c.do(ctx, http.MethodPost, "/api/check-out", req, nil)
}

// History returns every attendance record for an employee, most recent week
// first.
func (c *Client) History(ctx context.Context, employeeID string) ([]schema.Record, error) {
	var records []schema.Record
	err := c.do(ctx, http.MethodGet, "/api/history/"+employeeID, nil, &records)
	return records, err
}

// UpdateRecord rewrites one time field of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, req schema.UpdateRecordRequest) error {
	return c.do(ctx, http.MethodPut, "/api/record", req, nil)
}

// DeleteRecord removes an existing record.
func (c *Client) DeleteRecord(ctx context.Context, req schema.DeleteRecordRequest) error {
	return c.do(ctx, http.MethodDelete, "/api/record", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
