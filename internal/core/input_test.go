package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame(ActionLeft, ActionNone, ActionRotateCW, ActionLeft)

	want := []Action{ActionLeft, ActionRotateCW, ActionLeft}
	if diff := cmp.Diff(want, f.Actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if !f.Has(ActionRotateCW) {
		t.Error("Has(RotateCW) should be true")
	}
	if f.Has(ActionHold) {
		t.Error("Has(Hold) should be false")
	}
}

func TestInputFrameCloneIsIndependent(t *testing.T) {
	f := NewInputFrame(ActionHardDrop)
	c := f.Clone()
	f.Clear()
	f.Set(ActionHold)

	if !c.Has(ActionHardDrop) || c.Has(ActionHold) {
		t.Errorf("clone changed with original: %v", c.Actions)
	}
	if !f.Has(ActionHold) || f.Has(ActionHardDrop) {
		t.Errorf("unexpected original after reuse: %v", f.Actions)
	}
}

func TestInputFrameEmpty(t *testing.T) {
	var f InputFrame
	if !f.Empty() {
		t.Error("zero frame should be empty")
	}
	f.Set(ActionPause)
	if f.Empty() {
		t.Error("frame with an action should not be empty")
	}
}

func TestActionString(t *testing.T) {
	if ActionHardDrop.String() != "HardDrop" {
		t.Errorf("ActionHardDrop.String() = %q", ActionHardDrop.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}
