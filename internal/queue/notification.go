package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orin-ai/agentdash/internal/store"
)

// NotificationStore is what processing a notification needs.
type NotificationStore interface {
	store.SettingStore
	store.WhatsappStore
}

// ProcessNotificationMessage renders the prompt_<alert_type> setting for a
// queued Notification and appends it to the contact's chat history as an
// assistant message. Unknown alert types fall back to a generic text.
func ProcessNotificationMessage(ctx context.Context, s NotificationStore, body string) error {
	var n Notification
	if err := json.Unmarshal([]byte(body), &n); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}
	if n.To == "" || n.AlertType == "" {
		return fmt.Errorf("notification needs to and alert_type: %s", body)
	}

	content := fmt.Sprintf("Alert: %s", n.AlertType)
	setting, err := s.GetSetting(ctx, "prompt_"+n.AlertType)
	switch {
	case err == nil && strings.TrimSpace(setting.Value) != "":
		content = setting.Value
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("load prompt for %s: %w", n.AlertType, err)
	}

	msg := store.Message{Role: "assistant", Content: content, Timestamp: time.Now().Unix()}
	if err := s.AppendMessage(ctx, n.To, msg); err != nil {
		return fmt.Errorf("append message for %s: %w", n.To, err)
	}

	log.Info("Notification delivered to chat history", "to", n.To, "alert_type", n.AlertType)
	return nil
}
