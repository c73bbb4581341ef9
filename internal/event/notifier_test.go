// internal/event/notifier_test.go
package event

import "testing"

func TestEmitDeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()
	var order []int
	n.On(KindSave, func(LifecycleEvent) { order = append(order, 1) })
	n.On(KindSave, func(LifecycleEvent) { order = append(order, 2) })
	n.On(KindSave, func(LifecycleEvent) { order = append(order, 3) })

	n.Emit(KindSave, LifecycleEvent{})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", order)
	}
}

func TestKindsAreIndependent(t *testing.T) {
	n := NewNotifier()
	saves, cancels := 0, 0
	n.On(KindSave, func(LifecycleEvent) { saves++ })
	n.On(KindCancel, func(LifecycleEvent) { cancels++ })

	n.Emit(KindSave, LifecycleEvent{})
	n.Emit(KindSave, LifecycleEvent{})
	n.Emit(KindCancel, LifecycleEvent{})

	if saves != 2 || cancels != 1 {
		t.Errorf("saves=%d cancels=%d, want 2 and 1", saves, cancels)
	}
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	n := NewNotifier()
	n.Emit(KindSave, LifecycleEvent{})

	called := false
	n.On(KindSave, func(LifecycleEvent) { called = true })
	if called {
		t.Error("late subscriber must not see past events")
	}
}

func TestDetach(t *testing.T) {
	n := NewNotifier()
	count := 0
	detach := n.On(KindChange, func(LifecycleEvent) { count++ })

	n.Emit(KindChange, LifecycleEvent{})
	detach()
	detach() // idempotent
	n.Emit(KindChange, LifecycleEvent{})

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestDetachDuringDispatch(t *testing.T) {
	n := NewNotifier()
	var detach func()
	first, second := 0, 0
	detach = n.On(KindChange, func(LifecycleEvent) {
		first++
		detach()
	})
	n.On(KindChange, func(LifecycleEvent) { second++ })

	n.Emit(KindChange, LifecycleEvent{})
	if second != 1 {
		t.Error("a handler detaching itself must not disturb the others")
	}

	n.Emit(KindChange, LifecycleEvent{})
	if first != 1 {
		t.Errorf("detached handler ran %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining handler ran %d times, want 2", second)
	}
}

func TestEventCarriesPayload(t *testing.T) {
	n := NewNotifier()
	var got LifecycleEvent
	n.On(KindSave, func(ev LifecycleEvent) { got = ev })

	n.Emit(KindSave, LifecycleEvent{WasModified: true, Type: "Numeric"})
	if !got.WasModified || got.Type != "Numeric" {
		t.Errorf("payload = %+v", got)
	}
}
