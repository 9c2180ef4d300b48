package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyLoading         = "loading"
	KeyLoadFailed      = "load_failed"
	KeyTapToRetry      = "tap_to_retry"
	KeyLockedMedia     = "locked_media"
	KeyUnsupported     = "unsupported"
	KeySettings        = "settings"
	KeyLanguage        = "language"
	KeySave            = "save"
	KeyCancel          = "cancel"
	KeyClose           = "close"
	KeySlideshow       = "slideshow"
	KeySlideshowSpeed  = "slideshow_speed"
	KeyCrop            = "crop"
	KeyResetView       = "reset_view"
	KeyMoveUp          = "move_up"
	KeyMoveDown        = "move_down"
	KeyReorderPending  = "reorder_pending"
	KeyReorderReverted = "reorder_reverted"
	KeyPageLoadFailed  = "page_load_failed"
	KeyEagerLoading    = "eager_loading"
	KeyPrefetchMargin  = "prefetch_margin"
	KeyGhostCount      = "ghost_count"
	KeyRevealInterval  = "reveal_interval"
	KeyMaxZoom         = "max_zoom"
	KeySettingsSaved   = "settings_saved"
	KeyVideoFinished   = "video_finished"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "PixelGrid Viewer",
		KeyLoading:         "Loading...",
		KeyLoadFailed:      "Load failed",
		KeyTapToRetry:      "Tap to retry",
		KeyLockedMedia:     "Locked",
		KeyUnsupported:     "Unsupported media",
		KeySettings:        "Settings",
		KeyLanguage:        "Language",
		KeySave:            "Save",
		KeyCancel:          "Cancel",
		KeyClose:           "Close",
		KeySlideshow:       "Slideshow",
		KeySlideshowSpeed:  "Slideshow speed",
		KeyCrop:            "Crop",
		KeyResetView:       "Reset view",
		KeyMoveUp:          "Move up",
		KeyMoveDown:        "Move down",
		KeyReorderPending:  "A reorder is still being saved",
		KeyReorderReverted: "Reorder failed, order restored",
		KeyPageLoadFailed:  "Could not load more items",
		KeyEagerLoading:    "Load everything immediately",
		KeyPrefetchMargin:  "Prefetch margin (px)",
		KeyGhostCount:      "Placeholder slots",
		KeyRevealInterval:  "Reveal tick (ms)",
		KeyMaxZoom:         "Max zoom",
		KeySettingsSaved:   "Settings saved successfully!",
		KeyVideoFinished:   "Video finished",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:        "PixelGrid Просмотр",
		KeyLoading:         "Загрузка...",
		KeyLoadFailed:      "Ошибка загрузки",
		KeyTapToRetry:      "Нажмите для повтора",
		KeyLockedMedia:     "Закрыто",
		KeyUnsupported:     "Неподдерживаемый формат",
		KeySettings:        "Настройки",
		KeyLanguage:        "Язык",
		KeySave:            "Сохранить",
		KeyCancel:          "Отмена",
		KeyClose:           "Закрыть",
		KeySlideshow:       "Слайд-шоу",
		KeySlideshowSpeed:  "Скорость слайд-шоу",
		KeyCrop:            "Обрезка",
		KeyResetView:       "Сбросить вид",
		KeyMoveUp:          "Выше",
		KeyMoveDown:        "Ниже",
		KeyReorderPending:  "Прошлая перестановка ещё сохраняется",
		KeyReorderReverted: "Перестановка не удалась, порядок восстановлен",
		KeyPageLoadFailed:  "Не удалось загрузить ещё",
		KeyEagerLoading:    "Загружать всё сразу",
		KeyPrefetchMargin:  "Отступ предзагрузки (px)",
		KeyGhostCount:      "Слоты-заглушки",
		KeyRevealInterval:  "Шаг проявления (мс)",
		KeyMaxZoom:         "Макс. масштаб",
		KeySettingsSaved:   "Настройки успешно сохранены!",
		KeyVideoFinished:   "Видео завершено",
	}
}
