package overlay

import "testing"

func TestCompositorStatusString(t *testing.T) {
	tests := []struct {
		status CompositorStatus
		want   string
	}{
		{CompositorActive, "active"},
		{CompositorInactive, "inactive"},
		{CompositorUnknown, "unknown"},
		{CompositorStatus(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestTransparencyWarning(t *testing.T) {
	if w := TransparencyWarning(CompositorActive); w != "" {
		t.Errorf("active warning = %q, want empty", w)
	}
	if TransparencyWarning(CompositorInactive) == "" {
		t.Error("inactive warning is empty")
	}
	if TransparencyWarning(CompositorUnknown) == TransparencyWarning(CompositorInactive) {
		t.Error("unknown and inactive warnings should differ")
	}
}
