package store

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// AllowedAlertTypesSetting lists, comma separated, the alert types the dummy
// notification endpoint accepts.
const AllowedAlertTypesSetting = "allowed_alert_type"

// AllowedAlertTypes reads AllowedAlertTypesSetting. A missing setting allows
// nothing.
func AllowedAlertTypes(ctx context.Context, s SettingStore) ([]string, error) {
	setting, err := s.GetSetting(ctx, AllowedAlertTypesSetting)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, t := range strings.Split(setting.Value, ",") {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}
