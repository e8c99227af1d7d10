// internal/form/actions.go
//
// Forms subsystem: post-submit actions.
//
// Context
//   A FormDef may contain default actions.  ExecuteActions dispatches to
//   runEmail or runWebhook after validation.  Each helper queues work via
//   the messaging subsystem so HTTP requests return promptly.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nwatch/portal/internal/message"
)

// ActionCtx carries request-scoped helpers for action execution.
type ActionCtx struct{ Ctx context.Context }

// ExecuteActions performs all YAML-declared actions.  Errors are logged but
// not returned, keeping user flow uninterrupted.
func ExecuteActions(formID string, data map[string]string, actx ActionCtx) {
	fd, ok := GetFormDef(formID)
	if !ok || len(fd.Actions) == 0 {
		return
	}

	for _, ac := range fd.Actions {
		switch ac.Type {
		case "email":
			if err := runEmail(fd, ac.Params, data, actx); err != nil {
				logErr(fd.ID, "email", err)
			}
		case "webhook":
			if err := runWebhook(ac.Params, data, actx); err != nil {
				logErr(fd.ID, "webhook", err)
			}
		default:
			zap.S().Warnw("form action warning",
				"form", fd.ID, "action", ac.Type, "warning", "unsupported action")
		}
	}
}

// -----------------------------------------------------------------------------
// Email action
// -----------------------------------------------------------------------------

func runEmail(fd *FormDef, p map[string]any, data map[string]string, actx ActionCtx) error {
	// Recipients
	var to []string
	switch v := p["to"].(type) {
	case string:
		to = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				to = append(to, s)
			}
		}
	default:
		return fmt.Errorf("'to' parameter missing or invalid")
	}
	if len(to) == 0 {
		return fmt.Errorf("'to' parameter empty")
	}

	subject, _ := p["subject"].(string)
	if subject == "" {
		subject = fmt.Sprintf("Portal form submission: %s", fd.Title)
	}

	body, _ := json.MarshalIndent(data, "", "  ")
	msg := message.Email{
		To:      to,
		Subject: subject,
		Text:    string(body),
	}
	return message.EnqueueEmail(actx.Ctx, msg)
}

// -----------------------------------------------------------------------------
// Webhook action
// -----------------------------------------------------------------------------

func runWebhook(p map[string]any, data map[string]string, actx ActionCtx) error {
	url, ok := p["url"].(string)
	if !ok || url == "" {
		return fmt.Errorf("webhook action requires 'url'")
	}
	method, _ := p["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(actx.Ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range p {
		if strings.HasPrefix(k, "header.") {
			req.Header.Set(strings.TrimPrefix(k, "header."), fmt.Sprint(v))
		}
	}
	return message.EnqueueWebhook(actx.Ctx, req)
}

// -----------------------------------------------------------------------------
// Logging helpers
// -----------------------------------------------------------------------------

func logErr(formID, action string, err error) {
	zap.S().Errorw("form action failed",
		"form", formID, "action", action, "err", err)
}
