// Package dialogs provides the modal dialogs for calibration input and
// task actions.
package dialogs

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/danielcuellar117/cgs-glassbid-mvp-sub000/internal/calibration"
)

// ShowCalibration collects the known real length of the just-drawn
// calibration line. Feet, inches, and a sixteenth fraction are the
// primary inputs; a decimal-inches field overrides them when filled.
// Confirm stays disabled until the inputs yield a positive length.
func ShowCalibration(win fyne.Window, pixelLength float64, onConfirm func(realInches float64), onCancel func()) {
	feet := widget.NewEntry()
	feet.SetPlaceHolder("0")
	inches := widget.NewEntry()
	inches.SetPlaceHolder("0")
	fraction := widget.NewSelect(calibration.SixteenthOptions(), nil)
	fraction.SetSelectedIndex(0)
	decimal := widget.NewEntry()
	decimal.SetPlaceHolder("e.g. 36.5")

	preview := widget.NewLabel("")
	confirm := widget.NewButton("Set Scale", nil)
	confirm.Importance = widget.HighImportance
	confirm.Disable()

	var d dialog.Dialog

	parse := func() (float64, error) {
		if strings.TrimSpace(decimal.Text) != "" {
			return calibration.ParseDecimalInches(decimal.Text)
		}
		return calibration.ParseFeetInches(feet.Text, inches.Text, fraction.SelectedIndex())
	}

	validate := func() {
		v, err := parse()
		if err != nil {
			preview.SetText("Enter the real length of the drawn line")
			confirm.Disable()
			return
		}
		preview.SetText(fmt.Sprintf("%s over %.0f px", calibration.ToArchitecturalString(v), pixelLength))
		confirm.Enable()
	}

	feet.OnChanged = func(string) { validate() }
	inches.OnChanged = func(string) { validate() }
	decimal.OnChanged = func(string) { validate() }
	fraction.OnChanged = func(string) { validate() }

	confirmed := false
	confirm.OnTapped = func() {
		v, err := parse()
		if err != nil {
			return
		}
		confirmed = true
		d.Hide()
		onConfirm(v)
	}
	cancel := widget.NewButton("Cancel", func() {
		d.Hide()
	})

	form := container.NewVBox(
		widget.NewLabel("Known dimension"),
		container.NewGridWithColumns(3,
			labeled("Feet", feet),
			labeled("Inches", inches),
			labeled("Fraction", fraction),
		),
		widget.NewSeparator(),
		labeled("Or decimal inches", decimal),
		preview,
		container.NewGridWithColumns(2, cancel, confirm),
	)

	d = dialog.NewCustomWithoutButtons("Calibrate Page", form, win)
	d.SetOnClosed(func() {
		if !confirmed && onCancel != nil {
			onCancel()
		}
	})
	validate()
	d.Show()
}

// ShowSkipReason collects a reason before skipping tasks.
func ShowSkipReason(win fyne.Window, count int, onConfirm func(reason string)) {
	reason := widget.NewEntry()
	reason.SetPlaceHolder("Why can't this be measured?")

	title := "Skip Task"
	if count > 1 {
		title = fmt.Sprintf("Skip %d Tasks", count)
	}
	dialog.ShowForm(title, "Skip", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Reason", reason)},
		func(ok bool) {
			if ok {
				onConfirm(reason.Text)
			}
		}, win)
}

func labeled(label string, obj fyne.CanvasObject) fyne.CanvasObject {
	return container.NewVBox(widget.NewLabel(label), obj)
}
