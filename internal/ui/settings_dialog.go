package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/pixelgrid/pixelgrid-viewer/internal/config"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewer"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog

	// UI components
	eagerCheck     *widget.Check
	marginEntry    *widget.Entry
	ghostEntry     *widget.Entry
	revealEntry    *widget.Entry
	speedSlider    *widget.Slider
	maxZoomSelect  *widget.Select
	languageSelect *widget.Select
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.eagerCheck = widget.NewCheck(sd.localization.GetText(KeyEagerLoading), nil)

	sd.marginEntry = widget.NewEntry()
	sd.marginEntry.SetPlaceHolder("0-400")

	sd.ghostEntry = widget.NewEntry()
	sd.ghostEntry.SetPlaceHolder("1-4")

	sd.revealEntry = widget.NewEntry()
	sd.revealEntry.SetPlaceHolder("50-1000")

	// Slider positions map to milliseconds on a log scale
	sd.speedSlider = widget.NewSlider(0, 100)
	sd.speedSlider.Step = 1

	sd.maxZoomSelect = widget.NewSelect([]string{"2", "4", "8", "16"}, nil)

	languageOptions := []string{}
	for code := range sd.localization.GetAvailableLanguages() {
		languageOptions = append(languageOptions, code)
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(sd.localization.GetText(KeySettings)),
		widget.NewSeparator(),

		sd.eagerCheck,

		widget.NewLabel(sd.localization.GetText(KeyPrefetchMargin)+":"),
		sd.marginEntry,

		widget.NewLabel(sd.localization.GetText(KeyGhostCount)+":"),
		sd.ghostEntry,

		widget.NewLabel(sd.localization.GetText(KeyRevealInterval)+":"),
		sd.revealEntry,

		widget.NewLabel(sd.localization.GetText(KeySlideshowSpeed)+":"),
		sd.speedSlider,

		widget.NewLabel(sd.localization.GetText(KeyMaxZoom)+":"),
		sd.maxZoomSelect,

		widget.NewSeparator(),
		widget.NewLabel(sd.localization.GetText(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(400, 520))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.eagerCheck.SetChecked(sd.settings.GetEagerLoading())
	sd.marginEntry.SetText(strconv.Itoa(sd.settings.GetPrefetchMargin()))
	sd.ghostEntry.SetText(strconv.Itoa(sd.settings.GetGhostCount()))
	sd.revealEntry.SetText(strconv.Itoa(sd.settings.GetRevealIntervalMs()))
	sd.speedSlider.SetValue(float64(viewer.SliderForSpeed(sd.settings.GetSlideshowSpeedMs())))
	sd.maxZoomSelect.SetSelected(strconv.Itoa(int(sd.settings.GetMaxZoom())))
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.settings.SetEagerLoading(sd.eagerCheck.Checked)

	if margin, err := strconv.Atoi(sd.marginEntry.Text); err == nil {
		sd.settings.SetPrefetchMargin(margin)
	}
	if count, err := strconv.Atoi(sd.ghostEntry.Text); err == nil {
		sd.settings.SetGhostCount(count)
	}
	if interval, err := strconv.Atoi(sd.revealEntry.Text); err == nil {
		sd.settings.SetRevealIntervalMs(interval)
	}

	sd.settings.SetSlideshowSpeedMs(viewer.SpeedForSlider(int(sd.speedSlider.Value)))

	if sd.maxZoomSelect.Selected != "" {
		if zoom, err := strconv.Atoi(sd.maxZoomSelect.Selected); err == nil {
			sd.settings.SetMaxZoom(float64(zoom))
		}
	}

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
		sd.localization.SetLanguage(sd.languageSelect.Selected)
	}

	// Show confirmation
	dialog.ShowInformation(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySettingsSaved),
		sd.window,
	)
}
