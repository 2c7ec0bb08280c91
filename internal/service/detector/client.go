// Package detector implements an EventSource backed by a WebSocket push
// subscription against an upstream anomaly detection service.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"PulseWatch/internal/domain/models"
	drepo "PulseWatch/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements an EventSource backed by the detector WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	market    models.Market
	connected bool
}

// New creates a new detector EventSource.
func New(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration) drepo.EventSource {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("detector connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("detector: connected")
	return nil
}

// Subscribe subscribes to the given market's anomaly stream.
func (c *Client) Subscribe(ctx context.Context, market models.Market) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("detector not connected")
	}
	c.market = market
	msg := map[string]string{"type": "subscribe", "market": string(market)}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe %s: %w", market, err)
	}
	log.Printf("detector: subscribed %s", market)
	return nil
}

type wireEvent struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	InstrumentID string `json:"instrument_id"`
	DisplayName  string `json:"display_name"`
	Value        string `json:"value"`
	Description  string `json:"description"`
	OccurredAt   int64  `json:"occurred_at"` // ms
	Severity     string `json:"severity"`
	Market       string `json:"market"`
}

type wireMessage struct {
	Type string      `json:"type"`
	Data []wireEvent `json:"data"`
}

// Read streams anomaly events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.AnomalyEvent, <-chan error) {
	events := make(chan *models.AnomalyEvent, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("detector conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("detector read: %w", err)
					return
				}
				var m wireMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-event frames
					continue
				}
				if m.Type != "anomaly" {
					continue
				}
				for _, d := range m.Data {
					ev := &models.AnomalyEvent{
						ID:           d.ID,
						Type:         models.AnomalyType(d.Type),
						InstrumentID: d.InstrumentID,
						DisplayName:  d.DisplayName,
						Value:        d.Value,
						Description:  d.Description,
						OccurredAt:   time.UnixMilli(d.OccurredAt),
						Severity:     models.Severity(d.Severity),
						Market:       models.Market(d.Market),
					}
					select {
					case events <- ev:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx, c.market)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
