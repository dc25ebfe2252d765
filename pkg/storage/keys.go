package storage

import "fmt"

// Object keys are derived once per material and reused for both the upload
// call and the persisted record, so a retry for a fresh request never
// collides: the material id namespaces every key.

// VideoKey returns the object key {id}/video_{timestampMillis}.mp4.
func VideoKey(materialID string, timestampMillis int64) string {
	return fmt.Sprintf("%s/video_%d.mp4", materialID, timestampMillis)
}

// AudioKey returns the object key {id}/audio_{timestampMillis}.wav.
func AudioKey(materialID string, timestampMillis int64) string {
	return fmt.Sprintf("%s/audio_%d.wav", materialID, timestampMillis)
}
