package webhookcmd_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	webhookcmd "github.com/goliatone/go-headless/internal/commands/webhooks"
	"github.com/goliatone/go-headless/internal/webhooks"
	"github.com/google/uuid"
)

type okClient struct {
	calls int
}

func (c *okClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("ok"))}, nil
}

func TestRedeliverWebhookCommandValidation(t *testing.T) {
	store := webhooks.NewMemoryRepository()
	deliverer := webhooks.NewDeliverer(store, &okClient{})
	handler := webhookcmd.NewRedeliverWebhookHandler(deliverer, nil)

	err := handler.Execute(context.Background(), webhookcmd.RedeliverWebhookCommand{})
	if err == nil {
		t.Fatal("expected validation failure for missing log_id")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRedeliverWebhookCommandResends(t *testing.T) {
	ctx := context.Background()
	store := webhooks.NewMemoryRepository()
	client := &okClient{}
	deliverer := webhooks.NewDeliverer(store, client)

	svc := webhooks.NewService(store)
	endpoint, err := svc.CreateEndpoint(ctx, webhooks.CreateEndpointRequest{
		TargetURL:        "https://hooks.example.com/receive",
		SubscribedEvents: []string{"content_published"},
		Secret:           "s3cret",
		IsActive:         true,
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}
	if err := deliverer.Deliver(ctx, endpoint.ID, "content_published", time.Now().UTC(), map[string]any{"id": "abc"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	logs, _, err := svc.ListLogs(ctx, endpoint.ID, 1, 0)
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one log row, got %d (%v)", len(logs), err)
	}

	handler := webhookcmd.NewRedeliverWebhookHandler(deliverer, nil)
	if err := handler.Execute(ctx, webhookcmd.RedeliverWebhookCommand{LogID: logs[0].ID}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 outbound requests, got %d", client.calls)
	}
}

func TestRedeliverUnknownLogFails(t *testing.T) {
	store := webhooks.NewMemoryRepository()
	deliverer := webhooks.NewDeliverer(store, &okClient{})
	handler := webhookcmd.NewRedeliverWebhookHandler(deliverer, nil)

	err := handler.Execute(context.Background(), webhookcmd.RedeliverWebhookCommand{LogID: uuid.New()})
	if err == nil {
		t.Fatal("expected failure for missing log entry")
	}
}
