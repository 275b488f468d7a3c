package menu

import (
	"reflect"
	"testing"
	"time"

	"github.com/opd-ai/go-radial/internal/geometry"
)

var (
	testRing = geometry.RingConfig{InnerRadius: 45, CategoryRingWidth: 45, LayerWidth: 50, LayerCount: 2}
	center   = geometry.Pt(220, 220)
	t0       = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func midOf(t *testing.T, target geometry.Target) geometry.Point {
	t.Helper()
	s, ok := geometry.SectorFor(center, testRing, target)
	if !ok {
		t.Fatalf("no sector for %v", target)
	}
	return s.Mid()
}

// tableResolver returns "_Cmd" for every entry except those listed as empty.
func tableResolver(empty ...geometry.Target) Resolver {
	return ResolverFunc(func(t geometry.Target) (string, bool) {
		for _, e := range empty {
			if e == t {
				return "", false
			}
		}
		return "_Cmd", true
	})
}

func newMachine(r Resolver) *Machine {
	return New(testRing, center, Timing{}, r)
}

func countEmits(effects []Effect) int {
	n := 0
	for _, e := range effects {
		if _, ok := e.(EmitCommand); ok {
			n++
		}
	}
	return n
}

func TestDefaultTiming(t *testing.T) {
	m := New(testRing, center, Timing{Debounce: time.Second}, nil)
	got := m.Timing()
	if got.Debounce != time.Second {
		t.Errorf("Debounce = %v, want explicit 1s", got.Debounce)
	}
	if got.EntryDoubleClick != 350*time.Millisecond || got.HubDoubleClick != 400*time.Millisecond ||
		got.CategoryDoubleClick != 400*time.Millisecond || got.FocusGrace != 250*time.Millisecond {
		t.Errorf("zero fields not defaulted: %+v", got)
	}
}

func TestPointerMoveRedrawsOnlyOnChange(t *testing.T) {
	m := newMachine(tableResolver())
	entry := geometry.EntryTarget(2, 1, 1)
	p := midOf(t, entry)

	if got := m.Handle(PointerMove{Pos: p}); !reflect.DeepEqual(got, []Effect{Redraw{}}) {
		t.Fatalf("first move effects = %v, want [Redraw]", got)
	}
	if m.Hover() != entry || m.Phase() != HoveringEntry {
		t.Fatalf("hover = %v phase = %v", m.Hover(), m.Phase())
	}
	// Same target, slightly different point.
	if got := m.Handle(PointerMove{Pos: geometry.Pt(p.X+0.5, p.Y)}); len(got) != 0 {
		t.Errorf("move within same sector produced %v", got)
	}

	cat := geometry.CategoryTarget(5)
	if got := m.Handle(PointerMove{Pos: midOf(t, cat)}); len(got) != 1 {
		t.Errorf("move to category produced %v", got)
	}
	if m.Phase() != HoveringCategory {
		t.Errorf("phase = %v, want hovering_category", m.Phase())
	}

	m.Handle(PointerMove{Pos: geometry.Pt(0, 0)})
	if m.Hover() != geometry.None || m.Phase() != Idle {
		t.Errorf("outside: hover = %v phase = %v", m.Hover(), m.Phase())
	}
}

func TestEntryClickDispatchesAfterDebounce(t *testing.T) {
	target := geometry.EntryTarget(3, 1, 0)
	m := newMachine(tableResolver())

	effects := m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(0)})
	want := []Effect{ArmTimer{Seq: 1, Deadline: at(350)}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("click effects = %#v, want %#v", effects, want)
	}
	if m.Phase() != PendingDispatch {
		t.Fatalf("phase = %v, want pending_dispatch", m.Phase())
	}
	if p, _, ok := m.Pending(); !ok || p != target {
		t.Fatalf("pending = %v %v", p, ok)
	}

	effects = m.Handle(TimerFired{Seq: 1, At: at(350)})
	want = []Effect{Close{Reason: ReasonCommand}, EmitCommand{Token: "_Cmd", Target: target}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("timer effects = %#v, want %#v", effects, want)
	}
	if m.Phase() != Closed {
		t.Fatalf("phase = %v, want closed", m.Phase())
	}

	// Closed is terminal.
	for _, ev := range []Event{
		TimerFired{Seq: 1},
		PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(400)},
		PointerMove{Pos: center},
		KeyCancel{},
	} {
		if got := m.Handle(ev); got != nil {
			t.Errorf("closed machine produced %v for %T", got, ev)
		}
	}
}

func TestEntryDoubleClickOpensEditor(t *testing.T) {
	target := geometry.EntryTarget(3, 1, 0)
	m := newMachine(tableResolver())
	p := midOf(t, target)

	m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(0)})
	effects := m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(200)})
	want := []Effect{CancelTimer{Seq: 1}, OpenDialog{Kind: DialogEditEntry, Target: target}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("double click effects = %#v, want %#v", effects, want)
	}
	if !m.Modal() {
		t.Fatal("machine not modal after opening editor")
	}
	if _, _, ok := m.Pending(); ok {
		t.Fatal("dispatch still pending after double click")
	}

	// The late timer from the first click must not dispatch.
	if got := m.Handle(TimerFired{Seq: 1, At: at(350)}); countEmits(got) != 0 {
		t.Fatalf("stale timer dispatched: %v", got)
	}

	// Focus loss while the editor is open does not close.
	if got := m.Handle(FocusLost{}); got != nil {
		t.Fatalf("focus lost while modal produced %v", got)
	}
	m.Handle(FocusGained{})
	if got := m.Handle(DialogClosed{At: at(900)}); !reflect.DeepEqual(got, []Effect{Redraw{}}) {
		t.Fatalf("dialog closed effects = %v", got)
	}
	if m.Modal() {
		t.Fatal("still modal after DialogClosed")
	}
	if got := m.Handle(FocusLost{}); !reflect.DeepEqual(got, []Effect{Close{Reason: ReasonFocusLost}}) {
		t.Fatalf("focus lost effects = %v", got)
	}
}

func TestSecondClickOutsideWindowRearms(t *testing.T) {
	target := geometry.EntryTarget(0, 2, 2)
	m := newMachine(tableResolver())
	p := midOf(t, target)

	m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(0)})
	effects := m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(350)})
	want := []Effect{CancelTimer{Seq: 1}, ArmTimer{Seq: 2, Deadline: at(700)}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("slow second click effects = %#v, want %#v", effects, want)
	}
	if got := m.Handle(TimerFired{Seq: 1, At: at(360)}); got != nil {
		t.Fatalf("superseded timer produced %v", got)
	}
	if got := m.Handle(TimerFired{Seq: 2, At: at(700)}); countEmits(got) != 1 {
		t.Fatalf("current timer effects = %v, want one command", got)
	}
}

func TestClickOnDifferentEntrySupersedes(t *testing.T) {
	first := geometry.EntryTarget(1, 1, 0)
	second := geometry.EntryTarget(1, 1, 1)
	m := newMachine(tableResolver())

	m.Handle(PointerUp{Pos: midOf(t, first), Button: ButtonLeft, At: at(0)})
	effects := m.Handle(PointerUp{Pos: midOf(t, second), Button: ButtonLeft, At: at(100)})
	for _, e := range effects {
		if _, ok := e.(OpenDialog); ok {
			t.Fatal("click on a different entry opened the editor")
		}
	}
	got := m.Handle(TimerFired{Seq: 2, At: at(450)})
	if len(got) != 2 || got[1].(EmitCommand).Target != second {
		t.Fatalf("timer effects = %v, want dispatch of %v", got, second)
	}
}

func TestEmptyEntryNeverDispatches(t *testing.T) {
	target := geometry.EntryTarget(6, 2, 1)
	m := newMachine(tableResolver(target))

	m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(0)})
	if got := m.Handle(TimerFired{Seq: 1, At: at(350)}); got != nil {
		t.Fatalf("empty entry produced %v", got)
	}
	if m.Phase() == Closed {
		t.Fatal("empty entry closed the menu")
	}
	if _, _, ok := m.Pending(); ok {
		t.Fatal("pending not cleared after timer")
	}
}

func TestHubDoubleClickOpensSettings(t *testing.T) {
	m := newMachine(tableResolver())

	effects := m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
	if !reflect.DeepEqual(effects, []Effect{BeginDrag{Pos: center}}) {
		t.Fatalf("first hub press = %v, want drag", effects)
	}
	effects = m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(300)})
	want := []Effect{OpenDialog{Kind: DialogSettings, Target: geometry.Hub}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("second hub press = %#v, want %#v", effects, want)
	}
	if !m.Modal() {
		t.Fatal("not modal after settings opened")
	}
	if got := m.Handle(KeyCancel{}); got != nil {
		t.Fatalf("escape while modal produced %v", got)
	}
}

func TestHubSlowSecondPressDrags(t *testing.T) {
	m := newMachine(tableResolver())
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
	effects := m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(400)})
	if !reflect.DeepEqual(effects, []Effect{BeginDrag{Pos: center}}) {
		t.Fatalf("press after 400ms = %v, want drag", effects)
	}
}

func TestHubSettingsCancelsPendingDispatch(t *testing.T) {
	target := geometry.EntryTarget(4, 1, 1)
	m := newMachine(tableResolver())
	m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(0)})
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(50)})
	effects := m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(100)})
	want := []Effect{CancelTimer{Seq: 1}, OpenDialog{Kind: DialogSettings, Target: geometry.Hub}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("effects = %#v, want %#v", effects, want)
	}
}

func TestCategoryDoubleClickOpensRename(t *testing.T) {
	cat := geometry.CategoryTarget(3)
	m := newMachine(tableResolver())
	p := midOf(t, cat)

	if got := m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(0)}); got != nil {
		t.Fatalf("single category click produced %v", got)
	}
	effects := m.Handle(PointerUp{Pos: p, Button: ButtonLeft, At: at(399)})
	want := []Effect{OpenDialog{Kind: DialogRenameCategory, Target: cat}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("double click = %#v, want %#v", effects, want)
	}
}

func TestCategoryClicksOnDifferentCategories(t *testing.T) {
	m := newMachine(tableResolver())
	m.Handle(PointerUp{Pos: midOf(t, geometry.CategoryTarget(1)), Button: ButtonLeft, At: at(0)})
	if got := m.Handle(PointerUp{Pos: midOf(t, geometry.CategoryTarget(2)), Button: ButtonLeft, At: at(100)}); got != nil {
		t.Fatalf("clicks on two categories produced %v", got)
	}
}

func TestRightClickCancelsEverything(t *testing.T) {
	target := geometry.EntryTarget(3, 1, 0)
	m := newMachine(tableResolver())
	m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(0)})

	effects := m.Handle(PointerUp{Pos: geometry.Pt(5, 5), Button: ButtonRight, At: at(100)})
	want := []Effect{CancelTimer{Seq: 1}, Close{Reason: ReasonRightClick}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("right click = %#v, want %#v", effects, want)
	}
	if got := m.Handle(TimerFired{Seq: 1, At: at(350)}); countEmits(got) != 0 {
		t.Fatalf("timer after right click dispatched: %v", got)
	}
	if m.Phase() != Closed {
		t.Fatalf("phase = %v", m.Phase())
	}
}

func TestCancelEvents(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want CloseReason
	}{
		{"escape", KeyCancel{}, ReasonKey},
		{"focus lost", FocusLost{}, ReasonFocusLost},
		{"dismiss", Dismiss{}, ReasonDismissed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(tableResolver())
			got := m.Handle(tt.ev)
			if !reflect.DeepEqual(got, []Effect{Close{Reason: tt.want}}) {
				t.Fatalf("effects = %v", got)
			}
			if m.Phase() != Closed {
				t.Fatalf("phase = %v", m.Phase())
			}
		})
	}
}

func TestDismissIgnoresModal(t *testing.T) {
	m := newMachine(tableResolver())
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(10)})
	if got := m.Handle(Dismiss{}); len(got) != 1 {
		t.Fatalf("dismiss while modal = %v", got)
	}
}

func TestLayoutChangedResetsHover(t *testing.T) {
	m := newMachine(tableResolver())
	m.Handle(PointerMove{Pos: midOf(t, geometry.EntryTarget(0, 2, 0))})

	ring := testRing
	ring.LayerCount = 1
	newCenter := geometry.Pt(170, 170)
	got := m.Handle(LayoutChanged{Ring: ring, Center: newCenter})
	if !reflect.DeepEqual(got, []Effect{Redraw{}}) {
		t.Fatalf("effects = %v", got)
	}
	if m.Hover() != geometry.None || m.Ring() != ring || m.Center() != newCenter {
		t.Fatalf("layout not applied: hover=%v ring=%+v center=%v", m.Hover(), m.Ring(), m.Center())
	}
}

func TestPointerIgnoredWhileModal(t *testing.T) {
	m := newMachine(tableResolver())
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(10)})

	entry := geometry.EntryTarget(0, 1, 0)
	for _, ev := range []Event{
		PointerMove{Pos: midOf(t, entry)},
		PointerUp{Pos: midOf(t, entry), Button: ButtonLeft, At: at(20)},
		PointerUp{Pos: midOf(t, entry), Button: ButtonRight, At: at(30)},
	} {
		if got := m.Handle(ev); got != nil {
			t.Errorf("%T while modal produced %v", ev, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		Idle: "idle", HoveringCategory: "hovering_category", HoveringEntry: "hovering_entry",
		PendingDispatch: "pending_dispatch", Closed: "closed", Phase(99): "unknown",
	} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestBlankCommandStillDispatches(t *testing.T) {
	target := geometry.EntryTarget(3, 1, 0)
	m := newMachine(ResolverFunc(func(geometry.Target) (string, bool) { return "", true }))

	m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(0)})
	got := m.Handle(TimerFired{Seq: 1, At: at(350)})
	want := []Effect{Close{Reason: ReasonCommand}, EmitCommand{Token: "", Target: target}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("effects = %v, want %v", got, want)
	}
	if m.Phase() != Closed {
		t.Errorf("Phase = %v, want closed", m.Phase())
	}
}

func TestFocusCheckAfterDialog(t *testing.T) {
	tests := []struct {
		name      string
		lost      bool
		regained  bool
		wantClose bool
	}{
		{"focus kept", false, false, false},
		{"focus lost to dialog and not returned", true, false, true},
		{"focus returned after dialog", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(tableResolver())
			m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
			m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(100)})
			if !m.Modal() {
				t.Fatal("settings dialog did not open")
			}
			if tt.lost {
				m.Handle(FocusLost{})
			}

			effects := m.Handle(DialogClosed{At: at(2000)})
			var arm *ArmTimer
			for _, e := range effects {
				if a, ok := e.(ArmTimer); ok {
					arm = &a
				}
			}
			if (arm != nil) != tt.lost {
				t.Fatalf("dialog closed effects = %v", effects)
			}
			if arm == nil {
				return
			}
			if want := at(2000).Add(DefaultTiming().FocusGrace); !arm.Deadline.Equal(want) {
				t.Errorf("focus check deadline = %v, want %v", arm.Deadline, want)
			}

			if tt.regained {
				m.Handle(FocusGained{})
			}
			got := m.Handle(TimerFired{Seq: arm.Seq, At: arm.Deadline})
			closed := reflect.DeepEqual(got, []Effect{Close{Reason: ReasonFocusLost}})
			if closed != tt.wantClose {
				t.Errorf("focus check effects = %v, want close %v", got, tt.wantClose)
			}
			if (m.Phase() == Closed) != tt.wantClose {
				t.Errorf("Phase = %v", m.Phase())
			}
		})
	}
}

func TestEntryClickSupersedesFocusCheck(t *testing.T) {
	target := geometry.EntryTarget(1, 1, 0)
	m := newMachine(tableResolver())
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(0)})
	m.Handle(PointerDown{Pos: center, Button: ButtonLeft, At: at(100)})
	m.Handle(FocusLost{})
	m.Handle(DialogClosed{At: at(2000)})

	effects := m.Handle(PointerUp{Pos: midOf(t, target), Button: ButtonLeft, At: at(2100)})
	want := []Effect{CancelTimer{Seq: 1}, ArmTimer{Seq: 2, Deadline: at(2450)}}
	if !reflect.DeepEqual(effects, want) {
		t.Fatalf("click effects = %v, want %v", effects, want)
	}
	if got := m.Handle(TimerFired{Seq: 1, At: at(2250)}); got != nil {
		t.Fatalf("superseded focus check produced %v", got)
	}
	if got := m.Handle(TimerFired{Seq: 2, At: at(2450)}); countEmits(got) != 1 {
		t.Fatalf("dispatch effects = %v", got)
	}
}
