package platform

// Package platform contains the engine's external collaborators: the media
// resolution service that turns descriptor ids into locators, the
// persistence service that stores collection order, and the pagination
// source. MemoryBackend implements all three in process, with failure
// injection and latency knobs, and backs both the demo app and the tests.
