package present

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/k-kohey/simdrive/internal/platform"
	"github.com/rivo/tview"
)

// PickSimulator shows an interactive list of sims and returns the chosen one.
// ok is false when the user quits without choosing.
func PickSimulator(sims []platform.Simulator) (chosen platform.Simulator, ok bool, err error) {
	if len(sims) == 0 {
		return platform.Simulator{}, false, fmt.Errorf("no simulators to choose from")
	}

	app := tview.NewApplication()
	list := newPickerList(sims)

	selected := -1
	list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		selected = i
		app.Stop()
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	frame := tview.NewFrame(list).
		SetBorders(0, 0, 1, 0, 1, 1).
		AddText("Select a simulator  [gray](Enter choose, q/Esc quit)[-]", true, tview.AlignLeft, tcell.ColorYellow)

	if err := app.SetRoot(frame, true).Run(); err != nil {
		return platform.Simulator{}, false, fmt.Errorf("running picker: %w", err)
	}
	if selected < 0 {
		return platform.Simulator{}, false, nil
	}
	return sims[selected], true, nil
}

func newPickerList(sims []platform.Simulator) *tview.List {
	list := tview.NewList().ShowSecondaryText(true)
	for _, s := range sims {
		list.AddItem(pickerLabel(s), pickerDetail(s), 0, nil)
	}
	return list
}

// pickerLabel is the main line of a list entry; booted devices are marked green.
func pickerLabel(s platform.Simulator) string {
	label := fmt.Sprintf("%s  [gray]%s[-]", tview.Escape(s.Name), tview.Escape(s.Runtime))
	if s.State == platform.StateBooted {
		label += "  [green]●[-]"
	}
	return label
}

func pickerDetail(s platform.Simulator) string {
	return fmt.Sprintf("  %s  %s", s.UDID, s.State)
}
