// Package breach assesses credential breach risk from a local password
// heuristic and optional remote breach directories.
package breach

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/credential-defense/creddef/internal/errs"
)

const userAgent = "credential-defense-local"

// BreachEvent is one entry from the breached-account directory.
type BreachEvent struct {
	Name string `json:"Name"`
}

// Client performs the two remote breach lookups. Calls are blocking with a
// bounded timeout and are never retried: a failed attempt degrades evidence
// but must not block triage.
type Client struct {
	http            *http.Client
	rangeEndpoint   string
	accountEndpoint string
}

// NewClient builds a Client for the given endpoints.
func NewClient(rangeEndpoint, accountEndpoint string, timeout time.Duration) *Client {
	return &Client{
		http:            &http.Client{Timeout: timeout},
		rangeEndpoint:   rangeEndpoint,
		accountEndpoint: accountEndpoint,
	}
}

// PwnedPasswordCount runs the k-anonymity range query: only the first five
// hex characters of the password's SHA-1 digest leave the machine; the
// returned suffix list is scanned locally.
func (c *Client) PwnedPasswordCount(ctx context.Context, password string) (int, error) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := digest[:5], digest[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rangeEndpoint+prefix, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Add-Padding", "true")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrRemoteCheckUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: range query status %d", errs.ErrRemoteCheckUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrRemoteCheckUnavailable, err)
	}
	for _, line := range strings.Split(string(body), "\n") {
		lineSuffix, countText, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		if strings.ToUpper(lineSuffix) == suffix {
			count, err := strconv.Atoi(strings.TrimSpace(countText))
			if err != nil {
				return 0, fmt.Errorf("parse breach count: %w", err)
			}
			return count, nil
		}
	}
	return 0, nil
}

// BreachesForEmail queries the breach directory by account. A 404 means the
// account appears in zero breaches and is not an error.
func (c *Client) BreachesForEmail(ctx context.Context, email, apiKey string) ([]BreachEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.accountEndpoint+email, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("hibp-api-key", apiKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrRemoteCheckUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: account query status %d", errs.ErrRemoteCheckUnavailable, resp.StatusCode)
	}
	var events []BreachEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode breach list: %w", err)
	}
	return events, nil
}
