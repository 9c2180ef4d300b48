package main

import (
	"context"
	"log"

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

func main() {
	// Create new Fyne app
	myApp := app.NewWithID("com.pixelgrid.pixelgrid-viewer")
	myWindow := myApp.NewWindow("PixelGrid Viewer")
	myWindow.Resize(fyne.NewSize(460, 760))

	settings := config.NewSettings(myApp)

	backend := platform.NewMemoryBackend()
	backend.Seed("demo-gallery", []model.RawDescriptor{
		{ID: "m01", Kind: "image", SourceRef: "pg://m01", ThumbnailRef: "pg://m01-thumb", Title: "Harbor at dawn"},
		{ID: "m02", Kind: "video", SourceRef: "pg://m02", ThumbnailRef: "pg://m02-thumb", Title: "Street musicians"},
		{ID: "m03", Kind: "image", SourceRef: "pg://m03", ThumbnailRef: "pg://m03-thumb", Title: "Night tram"},
	})

	page, err := backend.FetchPage(context.Background(), "demo-gallery", "")
	if err != nil {
		log.Fatalf("failed to load the initial page: %v", err)
	}
	var descriptors []*model.MediaDescriptor
	for _, raw := range page.Items {
		if descriptor, err := model.Ingest(raw); err == nil {
			descriptors = append(descriptors, descriptor)
		}
	}
	collection := model.NewCollection("demo-gallery", descriptors...)

	loader := viewport.NewLoader(
		float32(settings.GetPrefetchMargin()),
		float32(settings.GetVisibleThreshold()),
	)
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
