package storage

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 17, 4, 5, 0, time.FixedZone("WIB", 7*3600))

	got := SnapshotKey(12, at)
	if got != "agents/12/20240309T100405Z.json" {
		t.Fatalf("SnapshotKey() = %q", got)
	}
	if !strings.HasPrefix(got, SnapshotPrefix(12)) {
		t.Fatalf("%q does not start with %q", got, SnapshotPrefix(12))
	}

	later := SnapshotKey(12, at.Add(time.Second))
	if later <= got {
		t.Fatalf("keys do not sort by time: %q <= %q", later, got)
	}
}

func TestWithPathPrefix(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		prefix string
		want   string
	}{
		{"NoPrefix", "https://files.example.com/bucket/a.json?X-Amz-Signature=abc", "", "https://files.example.com/bucket/a.json?X-Amz-Signature=abc"},
		{"WithPrefix", "https://files.example.com/bucket/a.json?X-Amz-Signature=abc", "/s3", "https://files.example.com/s3/bucket/a.json?X-Amz-Signature=abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := withPathPrefix(tc.raw, tc.prefix)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMemorySnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	k1 := SnapshotKey(1, time.Unix(100, 0))
	k2 := SnapshotKey(1, time.Unix(200, 0))
	other := SnapshotKey(2, time.Unix(100, 0))
	for _, k := range []string{k2, other, k1} {
		if err := m.PutSnapshot(ctx, k, []byte(`{}`)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	keys, _ := m.List(ctx, SnapshotPrefix(1))
	if len(keys) != 2 || keys[0] != k1 || keys[1] != k2 {
		t.Fatalf("keys = %q", keys)
	}
	if link, err := m.DownloadLink(ctx, k1, LinkExpiry); err != nil || link != "memory://"+k1 {
		t.Fatalf("link = %q, %v", link, err)
	}
	if _, err := m.DownloadLink(ctx, "agents/9/x.json", LinkExpiry); err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}
