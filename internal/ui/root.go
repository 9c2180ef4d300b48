package ui

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/pixelgrid/pixelgrid-viewer/internal/config"
	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/paging"
	"github.com/pixelgrid/pixelgrid-viewer/internal/platform"
	"github.com/pixelgrid/pixelgrid-viewer/internal/reorder"
	"github.com/pixelgrid/pixelgrid-viewer/internal/reveal"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewer"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewport"
)

// RootUI represents the main gallery UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization

	collection *model.Collection
	loader     *viewport.Loader
	controller *paging.Controller
	reorderSvc *reorder.Service
	resolver   platform.Resolver

	tileColumn *fyne.Container
	scroll     *container.Scroll

	mu        sync.Mutex
	tiles     map[string]*MediaTile
	subs      map[string]*viewport.Subscription
	sequences map[string]*reveal.Sequence
	overlay   *ViewerOverlay

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	toastTimer            *time.Timer
}

// NewRootUI creates and initializes the gallery UI
func NewRootUI(
	window fyne.Window,
	app fyne.App,
	collection *model.Collection,
	loader *viewport.Loader,
	controller *paging.Controller,
	reorderSvc *reorder.Service,
	resolver platform.Resolver,
) *RootUI {
	// Initialize settings
	settings := config.NewSettings(app)

	// Initialize localization
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		collection:   collection,
		loader:       loader,
		controller:   controller,
		reorderSvc:   reorderSvc,
		resolver:     resolver,
		tiles:        make(map[string]*MediaTile),
		subs:         make(map[string]*viewport.Subscription),
		sequences:    make(map[string]*reveal.Sequence),
	}

	log.Printf("RootUI initialized for collection %s with %d items", collection.ID, collection.Len())

	// Set window title
	window.SetTitle(localization.GetText(KeyAppTitle))

	// Wire service callbacks into the UI
	loader.SetVisibleCallback(ui.onDescriptorVisible)
	controller.SetPageCallback(ui.onPageLoaded)
	controller.SetErrorCallback(ui.onPageError)
	reorderSvc.SetResultCallback(ui.onReorderResult)
	reorderSvc.Register(collection)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// Create settings button
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	titleLabel := widget.NewLabel(ui.localization.GetText(KeyAppTitle))
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	topPanel := container.NewBorder(nil, nil, titleLabel, settingsBtn)

	// Create notification panel under the toolbar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationContainer = container.NewHBox(container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	// Create the scrolling gallery column
	ui.tileColumn = container.NewVBox()
	ui.scroll = container.NewVScroll(ui.tileColumn)
	ui.scroll.OnScrolled = func(pos fyne.Position) {
		ui.loader.SetViewport(pos.Y, ui.scroll.Size().Height)
	}

	content := container.NewBorder(topCombined, nil, nil, nil, ui.scroll)
	ui.window.SetContent(content)

	ui.rebuildTiles()

	log.Printf("UI setup completed successfully")
}

// Start publishes the initial viewport so above-the-fold items load
func (ui *RootUI) Start() {
	height := ui.scroll.Size().Height
	if height <= 0 {
		height = WindowHeight
	}
	ui.loader.SetViewport(0, height)
}

// rebuildTiles lays the gallery column out from the collection snapshot plus
// the controller's trailing ghost slots. Registrations happen after the lock
// is released because the loader may fire visibility callbacks synchronously.
func (ui *RootUI) rebuildTiles() {
	snapshot := ui.collection.Snapshot()
	ghostIDs := ui.controller.GhostIDs()

	type placement struct {
		id     string
		bounds viewport.Bounds
		ghost  bool
	}
	var placements []placement

	ui.mu.Lock()
	objects := make([]fyne.CanvasObject, 0, len(snapshot)+len(ghostIDs))
	top := float32(0)

	for _, descriptor := range snapshot {
		tile := ui.tiles[descriptor.ID]
		if tile == nil {
			tile = NewMediaTile(descriptor, ui.localization)
			tile.SetCallbacks(ui.openViewer, ui.retryLoad, ui.moveItem)
			ui.tiles[descriptor.ID] = tile
		}
		objects = append(objects, tile)
		placements = append(placements, placement{
			id:     descriptor.ID,
			bounds: viewport.Bounds{Top: top, Height: TileHeight},
		})
		top += TileHeight + TileSpacing
	}

	// Drop tiles for ghost slots that were retired by the last page
	live := make(map[string]bool, len(ghostIDs))
	for _, ghostID := range ghostIDs {
		live[ghostID] = true
	}
	for id, tile := range ui.tiles {
		if tile.IsGhost() && !live[id] {
			delete(ui.tiles, id)
			delete(ui.subs, id)
		}
	}

	for _, ghostID := range ghostIDs {
		tile := ui.tiles[ghostID]
		if tile == nil {
			tile = NewGhostTile(ghostID, ui.localization)
			ui.tiles[ghostID] = tile
		}
		objects = append(objects, tile)
		placements = append(placements, placement{
			id:     ghostID,
			bounds: viewport.Bounds{Top: top, Height: GhostHeight},
			ghost:  true,
		})
		top += GhostHeight + TileSpacing
	}

	ui.updateMoveButtonsLocked(snapshot)
	ui.mu.Unlock()

	ui.tileColumn.Objects = objects
	ui.tileColumn.Refresh()

	for _, p := range placements {
		if p.ghost {
			ui.controller.PlaceGhost(p.id, p.bounds)
			continue
		}
		ui.mu.Lock()
		sub := ui.subs[p.id]
		ui.mu.Unlock()
		if sub != nil {
			ui.loader.UpdateBounds(sub, p.bounds)
			continue
		}
		sub = ui.loader.Register(p.id, p.bounds)
		ui.mu.Lock()
		ui.subs[p.id] = sub
		ui.mu.Unlock()
	}
}

// updateMoveButtonsLocked refreshes the reorder affordances. Caller holds
// ui.mu.
func (ui *RootUI) updateMoveButtonsLocked(snapshot []*model.MediaDescriptor) {
	canDrag := ui.reorderSvc.CanDrag(ui.collection.ID)
	for index, descriptor := range snapshot {
		if tile := ui.tiles[descriptor.ID]; tile != nil {
			tile.SetMoveEnabled(canDrag && index > 0, canDrag && index < len(snapshot)-1)
		}
	}
}

// onDescriptorVisible handles a descriptor's one-shot visibility event
func (ui *RootUI) onDescriptorVisible(descriptorID string) {
	if paging.IsGhostID(descriptorID) {
		go ui.controller.GhostVisible(context.Background(), descriptorID)
		return
	}
	ui.startLoad(descriptorID)
}

// startLoad begins the load pipeline for a newly visible descriptor
func (ui *RootUI) startLoad(descriptorID string) {
	descriptor, exists := ui.collection.Get(descriptorID)
	if !exists {
		log.Printf("Visible descriptor %s is not in the collection", descriptorID)
		return
	}
	if descriptor.Kind == model.KindUnsupported {
		// Nothing to fetch; the tile keeps its neutral placeholder
		return
	}

	if err := ui.loader.Transition(descriptorID, model.StageRequested); err != nil {
		log.Printf("Load not started for %s: %v", descriptorID, err)
		return
	}
	ui.setTileStage(descriptorID, model.StageRequested)
	ui.beginReveal(descriptorID)
}

// retryLoad re-requests a failed descriptor
func (ui *RootUI) retryLoad(descriptorID string) {
	if err := ui.loader.Retry(descriptorID); err != nil {
		log.Printf("Retry rejected for %s: %v", descriptorID, err)
		return
	}
	log.Printf("Retrying load for %s", descriptorID)
	ui.setTileStage(descriptorID, model.StageRequested)
	ui.beginReveal(descriptorID)
}

// beginReveal starts a fresh reveal sequence and the async resolve chain
func (ui *RootUI) beginReveal(descriptorID string) {
	interval := time.Duration(ui.settings.GetRevealIntervalMs()) * time.Millisecond
	seq := reveal.Start(descriptorID, interval, func(stage reveal.Stage) {
		ui.applyRevealStage(descriptorID, stage)
	})

	ui.mu.Lock()
	if old := ui.sequences[descriptorID]; old != nil {
		old.Stop()
	}
	ui.sequences[descriptorID] = seq
	ui.mu.Unlock()

	go ui.resolveMedia(descriptorID, seq)
}

// resolveMedia walks the descriptor through thumbnail and main resolution,
// finishing or stopping the reveal sequence as the outcome dictates.
func (ui *RootUI) resolveMedia(descriptorID string, seq *reveal.Sequence) {
	ctx := context.Background()

	if _, err := ui.resolver.Resolve(ctx, descriptorID, platform.RenditionThumbnail); err != nil {
		ui.failLoad(descriptorID, seq, err)
		return
	}
	if err := ui.loader.Transition(descriptorID, model.StagePartiallyLoaded); err != nil {
		log.Printf("Stage update failed for %s: %v", descriptorID, err)
	}
	ui.setTileStage(descriptorID, model.StagePartiallyLoaded)

	if _, err := ui.resolver.Resolve(ctx, descriptorID, platform.RenditionMain); err != nil {
		if errors.Is(err, platform.ErrLocked) {
			// Locked media ends at its covered thumbnail
			seq.Finish()
			if terr := ui.loader.Transition(descriptorID, model.StageLoaded); terr != nil {
				log.Printf("Stage update failed for %s: %v", descriptorID, terr)
			}
			ui.setTileStage(descriptorID, model.StageLoaded)
			return
		}
		ui.failLoad(descriptorID, seq, err)
		return
	}

	seq.Finish()
	if err := ui.loader.Transition(descriptorID, model.StageLoaded); err != nil {
		log.Printf("Stage update failed for %s: %v", descriptorID, err)
	}
	ui.setTileStage(descriptorID, model.StageLoaded)
}

// failLoad marks a descriptor failed and abandons its reveal silently
func (ui *RootUI) failLoad(descriptorID string, seq *reveal.Sequence, cause error) {
	log.Printf("Load failed for %s: %v", descriptorID, cause)
	seq.Stop()
	if err := ui.loader.Transition(descriptorID, model.StageFailed); err != nil {
		log.Printf("Stage update failed for %s: %v", descriptorID, err)
	}
	ui.setTileStage(descriptorID, model.StageFailed)
}

// applyRevealStage pushes one reveal stage onto the descriptor's tile
func (ui *RootUI) applyRevealStage(descriptorID string, stage reveal.Stage) {
	ui.mu.Lock()
	tile := ui.tiles[descriptorID]
	ui.mu.Unlock()
	if tile != nil {
		tile.SetRevealStage(stage)
	}
}

// setTileStage pushes a load stage onto the descriptor's tile
func (ui *RootUI) setTileStage(descriptorID string, stage model.LoadStage) {
	ui.mu.Lock()
	tile := ui.tiles[descriptorID]
	ui.mu.Unlock()
	if tile != nil {
		tile.SetLoadStage(stage)
	}
}

// moveItem shifts a descriptor one slot up or down via the reorder service
func (ui *RootUI) moveItem(descriptorID string, delta int) {
	index := ui.collection.IndexOf(descriptorID)
	if index < 0 {
		return
	}
	target := index + delta
	if target < 0 || target >= ui.collection.Len() {
		return
	}

	if err := ui.reorderSvc.BeginDrag(ui.collection.ID, index); err != nil {
		if errors.Is(err, reorder.ErrReorderPending) {
			ui.showToast(KeyReorderPending)
		}
		log.Printf("Reorder not started for %s: %v", descriptorID, err)
		return
	}
	if err := ui.reorderSvc.DragOver(target); err != nil {
		log.Printf("Reorder target rejected for %s: %v", descriptorID, err)
		ui.reorderSvc.CancelDrag()
		return
	}
	if _, err := ui.reorderSvc.Drop(context.Background()); err != nil {
		log.Printf("Reorder drop failed for %s: %v", descriptorID, err)
		return
	}

	ui.rebuildTiles()
}

// onReorderResult handles the async persistence outcome of a reorder
func (ui *RootUI) onReorderResult(tx *reorder.Transaction, err error) {
	if err != nil {
		log.Printf("Reorder %s rolled back: %v", tx.ID, err)
		ui.showToast(KeyReorderReverted)
	} else {
		log.Printf("Reorder %s committed", tx.ID)
	}
	ui.rebuildTiles()
}

// onPageLoaded handles a page appended by the pagination controller
func (ui *RootUI) onPageLoaded(added int, hasMore bool) {
	log.Printf("Page loaded: %d new items, hasMore=%v", added, hasMore)
	ui.rebuildTiles()

	// Re-evaluate with the current scroll position so the new tiles can load
	ui.loader.SetViewport(ui.scroll.Offset.Y, ui.scroll.Size().Height)
}

// onPageError surfaces a failed page fetch. The ghost slot stays in place
// and re-arms for a retry on the next scroll.
func (ui *RootUI) onPageError(err error) {
	log.Printf("Page fetch failed: %v", err)
	ui.showToast(KeyPageLoadFailed)
}

// openViewer opens the full-screen viewer focused on the tapped descriptor
func (ui *RootUI) openViewer(descriptorID string) {
	index := ui.collection.IndexOf(descriptorID)
	if index < 0 {
		return
	}

	session, err := viewer.NewSession(ui.collection, index)
	if err != nil {
		log.Printf("Viewer session not created: %v", err)
		return
	}
	session.SetMaxZoom(ui.settings.GetMaxZoom())
	session.SetSlideshowSpeed(ui.settings.GetSlideshowSpeedMs())

	overlay := NewViewerOverlay(session, ui.collection.Len(), ui.localization, ui.closeViewer)

	ui.mu.Lock()
	ui.overlay = overlay
	ui.mu.Unlock()

	ui.window.Canvas().Overlays().Add(overlay.Container())
	ui.window.Canvas().SetOnTypedKey(overlay.HandleKey)
}

// closeViewer removes the overlay and persists the chosen slideshow speed
func (ui *RootUI) closeViewer() {
	ui.mu.Lock()
	overlay := ui.overlay
	ui.overlay = nil
	ui.mu.Unlock()
	if overlay == nil {
		return
	}

	ui.settings.SetSlideshowSpeedMs(overlay.session.SlideshowSpeedMs())
	ui.window.Canvas().Overlays().Remove(overlay.Container())
	ui.window.Canvas().SetOnTypedKey(nil)
}

// onShowSettings opens the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window).Show()
}

// showToast shows an auto-hiding notification line under the toolbar
func (ui *RootUI) showToast(key string) {
	ui.notificationLabel.SetText(ui.localization.GetText(key))
	ui.notificationContainer.Show()

	ui.mu.Lock()
	if ui.toastTimer != nil {
		ui.toastTimer.Stop()
	}
	ui.toastTimer = time.AfterFunc(ToastAutoHide, func() {
		ui.notificationContainer.Hide()
	})
	ui.mu.Unlock()
}
