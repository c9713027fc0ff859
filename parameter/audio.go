package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// MinSoundGap between consecutive cues of one type; a cluster landing in one tick plays once
	MinSoundGap = 50 * time.Millisecond

	AudioMasterVolume = 0.6
)

// Launch Sound: noise burst of the ejection charges
const (
	LaunchSoundDuration = 250 * time.Millisecond
	LaunchSoundAttack   = 5 * time.Millisecond
	LaunchSoundRelease  = 200 * time.Millisecond
	LaunchSoundVolume   = 0.5
)

// Ignition Sound: rising saw sweep as the motor lights
const (
	IgnitionSoundDuration = 400 * time.Millisecond
	IgnitionSoundAttack   = 40 * time.Millisecond
	IgnitionSoundRelease  = 150 * time.Millisecond
	IgnitionSoundFreqFrom = 120.0
	IgnitionSoundFreqTo   = 480.0
	IgnitionSoundVolume   = 0.3
)

// Hit Sound: low boom under a noise crack
const (
	HitSoundDuration     = 700 * time.Millisecond
	HitSoundAttack       = 2 * time.Millisecond
	HitSoundBoomRelease  = 650 * time.Millisecond
	HitSoundCrackRelease = 200 * time.Millisecond
	HitSoundBoomFreq     = 55.0
	HitSoundVolume       = 0.8
)

// Fizzle Sound: falling square sweep
const (
	FizzleSoundDuration = 300 * time.Millisecond
	FizzleSoundAttack   = 5 * time.Millisecond
	FizzleSoundRelease  = 250 * time.Millisecond
	FizzleSoundFreqFrom = 600.0
	FizzleSoundFreqTo   = 150.0
	FizzleSoundVolume   = 0.25
)
