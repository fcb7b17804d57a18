// Package audio plays short sound cues when toasts are shown.
// It uses the beep library to decode WAV, OGG and MP3 files, with one
// configurable cue per toast variant.
package audio
