package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/pixelgrid/pixelgrid-viewer/internal/config"
	"github.com/pixelgrid/pixelgrid-viewer/internal/model"
	"github.com/pixelgrid/pixelgrid-viewer/internal/paging"
	"github.com/pixelgrid/pixelgrid-viewer/internal/platform"
	"github.com/pixelgrid/pixelgrid-viewer/internal/reorder"
	"github.com/pixelgrid/pixelgrid-viewer/internal/ui"
	"github.com/pixelgrid/pixelgrid-viewer/internal/viewport"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.pixelgrid.pixelgrid-viewer"
	AppName = "PixelGrid Viewer"

	WindowWidth  = 460
	WindowHeight = 760

	DemoCollectionID = "demo-gallery"
	DemoLatency      = 250 * time.Millisecond
)

func main() {
	// Log version information
	fmt.Printf("PixelGrid Viewer v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply gallery theme
	myApp.Settings().SetTheme(ui.NewGalleryTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)

	backend := platform.NewMemoryBackend()
	backend.Seed(DemoCollectionID, demoItems())
	backend.SetLatency(DemoLatency)

	// Fetch the first page synchronously so the gallery opens populated
	page, err := backend.FetchPage(context.Background(), DemoCollectionID, "")
	if err != nil {
		log.Fatalf("failed to load the initial page: %v", err)
	}
	var descriptors []*model.MediaDescriptor
	for _, raw := range page.Items {
		descriptor, err := model.Ingest(raw)
		if err != nil {
			log.Printf("Skipping malformed descriptor: %v", err)
			continue
		}
		descriptors = append(descriptors, descriptor)
	}
	collection := model.NewCollection(DemoCollectionID, descriptors...)

	var loader *viewport.Loader
	if settings.GetEagerLoading() {
		loader = viewport.NewEagerLoader()
	} else {
		loader = viewport.NewLoader(
			float32(settings.GetPrefetchMargin()),
			float32(settings.GetVisibleThreshold()),
		)
	}

	controller := paging.NewController(
		collection, backend, loader,
		page.NextCursor, page.NextCursor != "",
		settings.GetGhostCount(),
	)
	reorderSvc := reorder.NewService(backend)

	// Create and setup UI
	rootUI := ui.NewRootUI(myWindow, myApp, collection, loader, controller, reorderSvc, backend)
	rootUI.Start()

	// Show and run
	myWindow.ShowAndRun()
}

// demoItems seeds the in-memory backend with a mixed gallery: images,
// videos, a locked item and one unsupported kind for the placeholder path.
func demoItems() []model.RawDescriptor {
	return []model.RawDescriptor{
		{ID: "m01", Kind: "image", SourceRef: "pg://m01", ThumbnailRef: "pg://m01-thumb", Title: "Harbor at dawn", Width: 1080, Height: 1350},
		{ID: "m02", Kind: "image", SourceRef: "pg://m02", ThumbnailRef: "pg://m02-thumb", Title: "Market alley"},
		{ID: "m03", Kind: "video", SourceRef: "pg://m03", ThumbnailRef: "pg://m03-thumb", Title: "Street musicians", Width: 1920, Height: 1080},
		{ID: "m04", Kind: "image", SourceRef: "pg://m04", ThumbnailRef: "pg://m04-thumb", Title: "Rooftop garden"},
		{ID: "m05", Kind: "image", SourceRef: "pg://m05", ThumbnailRef: "pg://m05-thumb", Title: "Subscriber preview", Locked: true},
		{ID: "m06", Kind: "video", SourceRef: "pg://m06", ThumbnailRef: "pg://m06-thumb", Title: "Kite festival"},
		{ID: "m07", Kind: "image", SourceRef: "pg://m07", ThumbnailRef: "pg://m07-thumb", Title: "Old lighthouse"},
		{ID: "m08", Kind: "audio", SourceRef: "pg://m08", Title: "Field recording"},
		{ID: "m09", Kind: "image", SourceRef: "pg://m09", ThumbnailRef: "pg://m09-thumb", Title: "Night tram"},
		{ID: "m10", Kind: "image", SourceRef: "pg://m10", ThumbnailRef: "pg://m10-thumb", Title: "Winter pier", Width: 1350, Height: 1080},
		{ID: "m11", Kind: "video", SourceRef: "pg://m11", ThumbnailRef: "pg://m11-thumb", Title: "Pottery wheel"},
		{ID: "m12", Kind: "image", SourceRef: "pg://m12", ThumbnailRef: "pg://m12-thumb", Title: "Cliff path"},
	}
}
