package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/pkg/interfaces"
	"github.com/google/uuid"
)

// SignatureHeader carries the HMAC-SHA256 of the exact request body, computed
// with the endpoint secret and hex encoded as "sha256=<hex>".
const SignatureHeader = "X-Headless-Signature-256"

const (
	// maxLoggedBody bounds how much of the response body a log row keeps.
	maxLoggedBody = 2000

	defaultDeliveryTimeout = 10 * time.Second
)

// Deliverer performs signed webhook deliveries and records one log row per
// attempt. HTTP 2xx is success; 4xx and payload errors are terminal; 5xx and
// transport errors are handed back to the queue for retry.
type Deliverer struct {
	store   Repository
	client  interfaces.HTTPClient
	timeout time.Duration
	now     func() time.Time
	id      func() uuid.UUID
	logger  interfaces.Logger
}

// DelivererOption configures a Deliverer.
type DelivererOption func(*Deliverer)

// WithDeliveryTimeout bounds each outbound request.
func WithDeliveryTimeout(timeout time.Duration) DelivererOption {
	return func(d *Deliverer) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDelivererClock overrides the clock used to stamp log rows.
func WithDelivererClock(clock func() time.Time) DelivererOption {
	return func(d *Deliverer) {
		if clock != nil {
			d.now = clock
		}
	}
}

// WithDelivererIDGenerator overrides the log row identifier generator.
func WithDelivererIDGenerator(generator func() uuid.UUID) DelivererOption {
	return func(d *Deliverer) {
		if generator != nil {
			d.id = generator
		}
	}
}

// WithDelivererLogger attaches a module logger.
func WithDelivererLogger(logger interfaces.Logger) DelivererOption {
	return func(d *Deliverer) {
		d.logger = logging.EnsureLogger(logger)
	}
}

// NewDeliverer constructs a deliverer over the webhook store and HTTP client.
func NewDeliverer(store Repository, client interfaces.HTTPClient, opts ...DelivererOption) *Deliverer {
	d := &Deliverer{
		store:   store,
		client:  client,
		timeout: defaultDeliveryTimeout,
		now:     time.Now,
		id:      uuid.New,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CanonicalPayload serializes {event, timestamp, data} with sorted keys so the
// signed bytes are reproducible. encoding/json emits map keys in sorted order.
func CanonicalPayload(event string, timestamp time.Time, data map[string]any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"event":     event,
		"timestamp": timestamp.UTC().Format(time.RFC3339),
		"data":      data,
	})
}

// Sign computes the signature header value for a serialized body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Deliver builds, signs, and posts the payload to the endpoint, appending a
// log row for the attempt. A nil return with a failed log row means the
// failure was terminal; a non-nil return asks the queue to retry.
func (d *Deliverer) Deliver(ctx context.Context, endpointID uuid.UUID, event string, timestamp time.Time, data map[string]any) error {
	endpoint, err := d.store.GetEndpoint(ctx, endpointID)
	if err != nil {
		if IsNotFound(err) {
			// endpoint removed since the event was queued
			return nil
		}
		return err
	}
	if !endpoint.IsActive {
		return nil
	}

	body, err := CanonicalPayload(event, timestamp, data)
	if err != nil {
		// unserializable payloads never become deliverable
		d.appendLog(ctx, endpoint, event, "", nil, fmt.Sprintf("payload error: %v", err), DeliveryFailed)
		return nil
	}

	return d.send(ctx, endpoint, event, body)
}

// Redeliver re-sends the exact body of a previous log entry, signing it with
// the endpoint's current secret.
func (d *Deliverer) Redeliver(ctx context.Context, logID uuid.UUID) error {
	entry, err := d.store.GetLog(ctx, logID)
	if err != nil {
		return err
	}
	endpoint, err := d.store.GetEndpoint(ctx, entry.EndpointID)
	if err != nil {
		return err
	}
	return d.send(ctx, endpoint, entry.EventType, []byte(entry.Payload))
}

func (d *Deliverer) send(ctx context.Context, endpoint *Endpoint, event string, body []byte) error {
	signature := Sign(endpoint.Secret, body)
	headers := map[string]string{
		"Content-Type":  "application/json",
		SignatureHeader: signature,
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint.TargetURL, bytes.NewReader(body))
	if err != nil {
		d.appendLog(ctx, endpoint, event, string(body), nil, fmt.Sprintf("request error: %v", err), DeliveryFailed)
		return nil
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		// transport failures (timeouts included) are worth retrying
		d.appendLog(ctx, endpoint, event, string(body), nil, fmt.Sprintf("transport error: %v", err), DeliveryFailed)
		return fmt.Errorf("deliver to %s: %w", endpoint.TargetURL, err)
	}
	defer resp.Body.Close()

	responseBody := readTruncated(resp.Body, maxLoggedBody)
	statusCode := resp.StatusCode

	switch {
	case statusCode >= 200 && statusCode < 300:
		d.appendLog(ctx, endpoint, event, string(body), &statusCode, responseBody, DeliverySuccess)
		return nil
	case statusCode >= 500:
		d.appendLog(ctx, endpoint, event, string(body), &statusCode, responseBody, DeliveryFailed)
		return fmt.Errorf("deliver to %s: status %d", endpoint.TargetURL, statusCode)
	default:
		// 4xx means the receiver rejected this payload; retrying cannot help
		d.appendLog(ctx, endpoint, event, string(body), &statusCode, responseBody, DeliveryFailed)
		return nil
	}
}

func (d *Deliverer) appendLog(ctx context.Context, endpoint *Endpoint, event, payload string, statusCode *int, responseBody string, status DeliveryStatus) {
	entry := &EventLog{
		ID:         d.id(),
		EndpointID: endpoint.ID,
		EventType:  event,
		Payload:    payload,
		RequestHeaders: map[string]string{
			"Content-Type":  "application/json",
			SignatureHeader: Sign(endpoint.Secret, []byte(payload)),
		},
		ResponseStatusCode: statusCode,
		ResponseBody:       responseBody,
		Status:             status,
		Timestamp:          d.now(),
	}
	if _, err := d.store.AppendLog(ctx, entry); err != nil {
		d.logger.Error("append delivery log", "endpoint", endpoint.ID.String(), "error", err)
	}
}

func readTruncated(r io.Reader, limit int) string {
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return ""
	}
	return string(data)
}

// DeliverTaskHandler adapts the deliverer for the task queue.
func DeliverTaskHandler(d *Deliverer) interfaces.TaskHandler {
	return func(ctx context.Context, task *interfaces.Task) error {
		rawID, _ := task.Args["endpoint_id"].(string)
		endpointID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("webhook task: bad endpoint_id %q: %w", rawID, err)
		}
		event, _ := task.Args["event"].(string)

		timestamp := time.Now().UTC()
		if raw, ok := task.Args["timestamp"].(string); ok {
			if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
				timestamp = parsed
			}
		}

		data, _ := task.Args["data"].(map[string]any)
		return d.Deliver(ctx, endpointID, event, timestamp, data)
	}
}
