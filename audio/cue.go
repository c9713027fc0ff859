package audio

import (
	"github.com/gopxl/beep"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/parameter"
)

// Config holds mix levels; EffectVolumes is indexed by core.SoundType
type Config struct {
	SampleRate    int
	MasterVolume  float64
	EffectVolumes [core.SoundTypeCount]float64
}

// DefaultConfig returns the stock mix
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   parameter.AudioSampleRate,
		MasterVolume: parameter.AudioMasterVolume,
		EffectVolumes: [core.SoundTypeCount]float64{
			core.SoundLaunch:   parameter.LaunchSoundVolume,
			core.SoundIgnition: parameter.IgnitionSoundVolume,
			core.SoundHit:      parameter.HitSoundVolume,
			core.SoundFizzle:   parameter.FizzleSoundVolume,
		},
	}
}

func (c *Config) volume(st core.SoundType) float64 {
	if st < 0 || st >= core.SoundTypeCount {
		return 0
	}
	return c.EffectVolumes[st] * c.MasterVolume
}

// NewCue synthesizes the streamer for one sound type; nil for unknown types
func NewCue(cfg *Config, st core.SoundType) beep.Streamer {
	switch st {
	case core.SoundLaunch:
		return CreateLaunchSound(cfg)
	case core.SoundIgnition:
		return CreateIgnitionSound(cfg)
	case core.SoundHit:
		return CreateHitSound(cfg)
	case core.SoundFizzle:
		return CreateFizzleSound(cfg)
	default:
		return nil
	}
}

// CreateLaunchSound generates the short noise thump of the ejection charges
func CreateLaunchSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	noise := NewOscillator(0, parameter.LaunchSoundDuration, WaveNoise, rate)
	shaped := NewEnvelope(noise, parameter.LaunchSoundDuration, parameter.LaunchSoundAttack, parameter.LaunchSoundRelease, rate)

	return newVolume(shaped, cfg.volume(core.SoundLaunch))
}

// CreateIgnitionSound generates a rising saw sweep
func CreateIgnitionSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	sweep := NewSweep(parameter.IgnitionSoundFreqFrom, parameter.IgnitionSoundFreqTo, parameter.IgnitionSoundDuration, WaveSaw, rate)
	shaped := NewEnvelope(sweep, parameter.IgnitionSoundDuration, parameter.IgnitionSoundAttack, parameter.IgnitionSoundRelease, rate)

	return newVolume(shaped, cfg.volume(core.SoundIgnition))
}

// CreateHitSound layers a low sine boom under a short noise crack
func CreateHitSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	boom := NewOscillator(parameter.HitSoundBoomFreq, parameter.HitSoundDuration, WaveSine, rate)
	boomShaped := NewEnvelope(boom, parameter.HitSoundDuration, parameter.HitSoundAttack, parameter.HitSoundBoomRelease, rate)

	crack := NewOscillator(0, parameter.HitSoundDuration, WaveNoise, rate)
	crackShaped := NewEnvelope(crack, parameter.HitSoundDuration, parameter.HitSoundAttack, parameter.HitSoundCrackRelease, rate)

	mixed := beep.Take(rate.N(parameter.HitSoundDuration), beep.Mix(
		newVolume(boomShaped, 0.7),
		newVolume(crackShaped, 0.3),
	))
	return newVolume(mixed, cfg.volume(core.SoundHit))
}

// CreateFizzleSound generates a falling square sweep
func CreateFizzleSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	sweep := NewSweep(parameter.FizzleSoundFreqFrom, parameter.FizzleSoundFreqTo, parameter.FizzleSoundDuration, WaveSquare, rate)
	shaped := NewEnvelope(sweep, parameter.FizzleSoundDuration, parameter.FizzleSoundAttack, parameter.FizzleSoundRelease, rate)

	return newVolume(shaped, cfg.volume(core.SoundFizzle))
}
