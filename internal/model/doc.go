package model

// Package model defines domain data structures used across the app: media
// descriptors, ordered collections, and stage enums. Structures are designed
// for direct binding in the UI and explicit state transitions.
