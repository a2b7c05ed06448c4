package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const bytesPerSample = 2

// loopReader replays a PCM buffer forever. Seek positions wrap modulo the buffer length.
type loopReader struct {
	data []byte
	pos  int64
}

func newLoopReader(data []byte) *loopReader {
	return &loopReader{data: data}
}

func (reader *loopReader) Read(buf []byte) (int, error) {
	size := int64(len(reader.data))
	if size == 0 {
		return 0, io.EOF
	}
	read := 0
	for read < len(buf) {
		n := copy(buf[read:], reader.data[reader.pos:])
		read += n
		reader.pos = (reader.pos + int64(n)) % size
	}
	return read, nil
}

func (reader *loopReader) Seek(offset int64, whence int) (int64, error) {
	size := int64(len(reader.data))
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = reader.pos + offset
	case io.SeekEnd:
		target = size + offset
	default:
		return 0, errors.New("loop reader: invalid whence")
	}
	if target < 0 {
		return 0, errors.New("loop reader: negative position")
	}
	if size > 0 {
		target %= size
	} else {
		target = 0
	}
	reader.pos = target
	return target, nil
}

// encodePCM converts interleaved float samples in [-1,1] to signed 16-bit little endian.
func encodePCM(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(toInt16(float64(sample))))
	}
	return out
}

func toInt16(sample float64) int16 {
	if sample > 1 {
		sample = 1
	} else if sample < -1 {
		sample = -1
	}
	return int16(math.Round(sample * math.MaxInt16))
}

// convert resamples interleaved samples to sampleRate and maps them to channels outputs
// using linear interpolation. Mono is duplicated; extra channels beyond two are dropped.
func convert(samples []float32, inRate, inChannels, outRate, outChannels int) []float32 {
	if inRate <= 0 || inChannels <= 0 || outRate <= 0 || outChannels <= 0 || len(samples) < inChannels {
		return nil
	}
	inFrames := len(samples) / inChannels
	outFrames := int(int64(inFrames) * int64(outRate) / int64(inRate))
	out := make([]float32, outFrames*outChannels)

	step := float64(inRate) / float64(outRate)
	for frame := 0; frame < outFrames; frame++ {
		position := float64(frame) * step
		index := int(position)
		fraction := float32(position - float64(index))
		next := index + 1
		if next >= inFrames {
			next = inFrames - 1
		}
		for channel := 0; channel < outChannels; channel++ {
			source := channel
			if source >= inChannels {
				source = inChannels - 1
			}
			a := samples[index*inChannels+source]
			b := samples[next*inChannels+source]
			out[frame*outChannels+channel] = a + (b-a)*fraction
		}
	}
	return out
}
