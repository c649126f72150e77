package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/scafhq/attendance-engine/internal/domain/punch"
)

// Device is one capture terminal as declared in the terminals file.
type Device struct {
	Name    string `json:"name"`
	Area    string `json:"area"`
	BaseURL string `json:"base_url"`
}

// Client polls one terminal for its raw punch log. The device protocol
// is assumed to deliver a JSON event list; authentication and
// transport security sit outside this engine.
type Client struct {
	device Device
	http   *http.Client
}

func NewClient(device Device, timeout time.Duration) *Client {
	return &Client{
		device: device,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return c.device.Name }

func (c *Client) Area() string { return c.device.Area }

// FetchEvents downloads the terminal's pending punch records, oldest
// first. The request is bounded by the client timeout so a hung
// device cannot stall the engine cycle.
func (c *Client) FetchEvents(ctx context.Context) ([]punch.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.device.BaseURL+"/attendance/logs", nil)
	if err != nil {
		return nil, fmt.Errorf("build terminal request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("terminal %s unreachable: %w", c.device.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("terminal %s returned status %d", c.device.Name, resp.StatusCode)
	}

	var payload struct {
		Data []punch.RawEvent `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode terminal %s response: %w", c.device.Name, err)
	}

	return payload.Data, nil
}

// LoadSources reads the terminals file and builds one polling client
// per configured device. Devices without a base URL are skipped.
func LoadSources(path string, timeout time.Duration) ([]punch.TerminalSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read terminals file: %w", err)
	}

	var devices []Device
	if err := json.Unmarshal(raw, &devices); err != nil {
		return nil, fmt.Errorf("parse terminals file: %w", err)
	}

	sources := make([]punch.TerminalSource, 0, len(devices))
	for _, d := range devices {
		if d.BaseURL == "" {
			continue
		}
		sources = append(sources, NewClient(d, timeout))
	}
	return sources, nil
}
