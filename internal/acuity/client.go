package acuity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"party-status-backend/config"
	"party-status-backend/internal/metrics"
)

// ErrFetch is returned for every upstream failure. Callers only learn that
// the fetch failed; the cause is wrapped for logging.
var ErrFetch = errors.New("failed to fetch appointments")

// Client reads appointments from the Acuity Scheduling API.
type Client struct {
	cfg    config.AcuityConfig
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates an Acuity client. A zero timeout leaves requests unbounded.
func NewClient(cfg config.AcuityConfig, logger zerolog.Logger) *Client {
	var transport http.RoundTripper = http.DefaultTransport
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.HTTPProxy).Msg("invalid proxy URL, fetching without proxy")
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: logger.With().Str("component", "acuity").Logger(),
	}
}

// FetchAppointments returns the non-cancelled appointments of the configured
// type on date (YYYY-MM-DD), newest first, including form data.
func (c *Client) FetchAppointments(ctx context.Context, date string) ([]Appointment, error) {
	appts, err := c.fetch(ctx, date)
	if err != nil {
		metrics.IncFetch("error")
		c.log.Error().Err(err).Str("date", date).Msg("fetching appointments failed")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	metrics.IncFetch("ok")
	c.log.Debug().Str("date", date).Int("count", len(appts)).Msg("fetched appointments")
	return appts, nil
}

func (c *Client) fetch(ctx context.Context, date string) ([]Appointment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/appointments", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = c.query(date).Encode()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var appts []Appointment
	if err := json.Unmarshal(body, &appts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal appointments: %w", err)
	}
	return appts, nil
}

func (c *Client) query(date string) url.Values {
	q := url.Values{}
	q.Set("max", strconv.Itoa(c.cfg.Max))
	q.Set("minDate", date)
	q.Set("maxDate", date)
	q.Set("appointmentTypeID", strconv.FormatInt(c.cfg.AppointmentTypeID, 10))
	q.Set("cancelled", "false")
	q.Set("excludeForms", "false")
	q.Set("direction", "DESC")
	return q
}
