package logics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"schoolhub-server/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier dispatches an announcement to a list of recipients.
// Implementations may fail transiently (endpoint unreachable), which callers
// must tolerate without failing the overall request.
type Notifier interface {
	Send(ctx context.Context, userIDs []string, title, body, messageType string, data map[string]string) error
}

// PushService posts announcements to the configured push gateway.
type PushService struct {
	gatewayURL string
	apiKey     string
	client     *http.Client
	logger     *zap.Logger
}

// NewPushService creates a new PushService.
func NewPushService(gatewayURL, apiKey string, timeout time.Duration, logger *zap.Logger) *PushService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PushService{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type pushRequest struct {
	UserIDs []string          `json:"user_ids"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Type    string            `json:"type"`
	Data    map[string]string `json:"data,omitempty"`
}

// Send posts the announcement to the gateway. A missing gateway URL and
// network-level failures surface as the transient delivery error; a non-2xx
// gateway response is treated as permanent.
func (s *PushService) Send(ctx context.Context, userIDs []string, title, body, messageType string, data map[string]string) error {
	if s.gatewayURL == "" {
		return auth.NewAuthError(auth.ErrDeliveryUnreachable, "push gateway not configured")
	}

	payload, err := json.Marshal(pushRequest{
		UserIDs: userIDs,
		Title:   title,
		Body:    body,
		Type:    messageType,
		Data:    data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	// Dispatch id so gateway-side logs can be correlated with ours.
	dispatchID := uuid.NewString()
	req.Header.Set("X-Request-ID", dispatchID)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: the record is kept and
		// delivery is skipped.
		return auth.NewAuthErrorWithCause(auth.ErrDeliveryUnreachable, "push gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return auth.NewAuthError(auth.ErrUnexpected, fmt.Sprintf("push gateway returned status %d", resp.StatusCode))
	}

	s.logger.Info("Push dispatched",
		zap.String("dispatch_id", dispatchID),
		zap.Int("recipients", len(userIDs)),
		zap.String("title", title))
	return nil
}
