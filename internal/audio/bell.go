package audio

import (
	"bytes"
	"math"
	"sync"
	"time"
)

// Chime tone parameters: C5, E5, G5 staggered 0.3 s apart, each decaying over 0.8 s.
var chimeFrequencies = []float64{523, 659, 784}

const (
	chimeStagger = 0.3
	chimeDecay   = 0.8
	chimeAttack  = 0.01
	chimePeak    = 0.6
	chimeFloor   = 0.001
)

// Chime plays the three-tone completion bell on a Device.
type Chime struct {
	device  *Device
	once    sync.Once
	samples []byte
}

// NewChime creates a chime bound to device.
func NewChime(device *Device) *Chime {
	return &Chime{device: device}
}

// PlayCompletionChime starts the chime and returns without waiting for it to finish.
func (chime *Chime) PlayCompletionChime() error {
	ctx, err := chime.device.Context()
	if err != nil {
		return err
	}
	chime.once.Do(func() {
		chime.samples = encodePCM(synthesizeChime(chime.device.SampleRate(), ChannelCount))
	})

	player := ctx.NewPlayer(bytes.NewReader(chime.samples))
	player.Play()
	go func() {
		for player.IsPlaying() {
			time.Sleep(50 * time.Millisecond)
		}
		_ = player.Close()
	}()
	return nil
}

// synthesizeChime renders the chime as interleaved float samples.
func synthesizeChime(sampleRate, channels int) []float32 {
	length := chimeStagger*float64(len(chimeFrequencies)-1) + chimeDecay
	frames := int(math.Round(length * float64(sampleRate)))
	out := make([]float32, frames*channels)

	for frame := 0; frame < frames; frame++ {
		t := float64(frame) / float64(sampleRate)
		var value float64
		for i, frequency := range chimeFrequencies {
			start := chimeStagger * float64(i)
			if t < start || t >= start+chimeDecay {
				continue
			}
			local := t - start
			value += chimeEnvelope(local) * math.Sin(2*math.Pi*frequency*local)
		}
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		for channel := 0; channel < channels; channel++ {
			out[frame*channels+channel] = float32(value)
		}
	}
	return out
}

// chimeEnvelope ramps linearly to the peak, then decays exponentially to the floor.
func chimeEnvelope(t float64) float64 {
	if t < chimeAttack {
		return chimePeak * t / chimeAttack
	}
	progress := (t - chimeAttack) / (chimeDecay - chimeAttack)
	return chimePeak * math.Pow(chimeFloor/chimePeak, progress)
}
