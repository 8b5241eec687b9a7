package core

import "testing"

func TestEventsAreQueuedUntilProcessed(t *testing.T) {
	if err := EventInitialize(); err != nil {
		t.Fatal(err)
	}
	defer EventShutdown()

	var got []KeyCode
	EventRegister(EVENT_CODE_KEY_PRESSED, func(ctx EventContext) bool {
		got = append(got, ctx.Data.(*KeyEvent).KeyCode)
		return true
	})
	second := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, func(ctx EventContext) bool {
		second++
		return false
	})

	EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED, Data: &KeyEvent{KeyCode: KEY_R}})
	EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED, Data: &KeyEvent{KeyCode: KEY_ESCAPE}})
	if len(got) != 0 {
		t.Fatalf("events should not be delivered before EventProcess")
	}

	EventProcess()
	if len(got) != 2 || got[0] != KEY_R || got[1] != KEY_ESCAPE {
		t.Errorf("delivered keys = %v", got)
	}
	if second != 0 {
		t.Errorf("handled events should not reach later listeners")
	}
}

func TestEventRegisterRejectsInvalidCode(t *testing.T) {
	EventInitialize()
	defer EventShutdown()

	if err := EventRegister(MAX_EVENT_CODE, func(EventContext) bool { return false }); err == nil {
		t.Errorf("expected an error for an out of range code")
	}
}

func TestInputTracksMouseDelta(t *testing.T) {
	EventInitialize()
	InputInitialize()
	defer EventShutdown()
	defer InputShutdown()

	InputProcessMouseMove(10, 20)
	InputUpdate()
	InputProcessMouseMove(15, 12)
	InputProcessButton(BUTTON_LEFT, true)
	InputProcessMouseWheel(2)

	dx, dy := InputGetMouseDelta()
	if dx != 5 || dy != -8 {
		t.Errorf("delta = (%d, %d), want (5, -8)", dx, dy)
	}
	if !InputIsButtonDown(BUTTON_LEFT) || InputWasButtonDown(BUTTON_LEFT) {
		t.Errorf("left button state is wrong")
	}
	if InputGetScroll() != 2 {
		t.Errorf("scroll = %d, want 2", InputGetScroll())
	}

	InputUpdate()
	if InputGetScroll() != 0 {
		t.Errorf("scroll should reset every frame")
	}
}
