package render

import "testing"

func TestCompositorStatusString(t *testing.T) {
	tests := []struct {
		status CompositorStatus
		want   string
	}{
		{CompositorUnknown, "unknown"},
		{CompositorActive, "active"},
		{CompositorInactive, "inactive"},
		{CompositorStatus(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("CompositorStatus(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestDetectCompositorValid(t *testing.T) {
	switch s := DetectCompositor(); s {
	case CompositorUnknown, CompositorActive, CompositorInactive:
		t.Logf("DetectCompositor() = %s", s)
	default:
		t.Errorf("DetectCompositor() returned invalid status %d", int(s))
	}
}
