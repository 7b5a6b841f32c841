package present

import (
	"strings"
	"testing"

	"github.com/k-kohey/simdrive/internal/platform"
)

func TestPickerLabel(t *testing.T) {
	booted := pickerLabel(testSims[0])
	if !strings.HasPrefix(booted, "iPhone 15") || !strings.Contains(booted, "iOS 17.2") || !strings.Contains(booted, "●") {
		t.Errorf("booted label = %q", booted)
	}
	if shutdown := pickerLabel(testSims[1]); strings.Contains(shutdown, "●") {
		t.Errorf("shutdown label should not be marked: %q", shutdown)
	}
}

func TestPickerLabel_EscapesTags(t *testing.T) {
	label := pickerLabel(platform.Simulator{Name: "iPhone [red]", Runtime: "iOS 17.2"})
	if !strings.Contains(label, "[red[]") {
		t.Errorf("name not escaped: %q", label)
	}
}

func TestNewPickerList(t *testing.T) {
	list := newPickerList(testSims)
	if list.GetItemCount() != len(testSims) {
		t.Fatalf("items = %d, want %d", list.GetItemCount(), len(testSims))
	}
	_, detail := list.GetItemText(1)
	if !strings.Contains(detail, "UDID-14") || !strings.Contains(detail, "Shutdown") {
		t.Errorf("detail = %q", detail)
	}
}

func TestPickSimulator_Empty(t *testing.T) {
	if _, ok, err := PickSimulator(nil); err == nil || ok {
		t.Errorf("PickSimulator(nil) = ok %v, err %v; want error", ok, err)
	}
}
