package store

import (
	"context"
	"slices"
	"testing"
)

func TestAllowedAlertTypes(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  []string
	}{
		{"Missing", nil, nil},
		{"Single", ptr("overspeed"), []string{"overspeed"}},
		{"TrimsAndDedups", ptr(" overspeed, idle ,overspeed,,"), []string{"overspeed", "idle"}},
		{"Blank", ptr(""), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			m := NewMemory()
			if tc.value != nil {
				if _, err := m.CreateSetting(ctx, AllowedAlertTypesSetting, *tc.value); err != nil {
					t.Fatalf("create: %v", err)
				}
			}
			got, err := AllowedAlertTypes(ctx, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func ptr(s string) *string { return &s }
