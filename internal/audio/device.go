package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Output format shared by the chime and ambient tracks. Oto allows one context per process.
const (
	SampleRate   = 44100
	ChannelCount = 2
)

// Device lazily opens the process-wide oto context.
type Device struct {
	once       sync.Once
	ctx        *oto.Context
	err        error
	sampleRate int
}

// NewDevice returns a device that opens on first use.
func NewDevice() *Device {
	return &Device{sampleRate: SampleRate}
}

// SampleRate returns the output sample rate.
func (device *Device) SampleRate() int {
	return device.sampleRate
}

// Context returns the oto context, opening it on first call.
func (device *Device) Context() (*oto.Context, error) {
	device.once.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   device.sampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if err != nil {
			device.err = fmt.Errorf("open audio device: %w", err)
			return
		}
		<-ready
		device.ctx = ctx
	})
	return device.ctx, device.err
}
