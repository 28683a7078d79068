package sound

import (
	"encoding/binary"
	"math"
)

const (
	sampleRate = 44100

	toneDuration = 150 * millisecond
	fadeDuration = 10 * millisecond

	lowPitchHz  = 880.0
	highPitchHz = 1320.0

	amplitude = 0.35

	millisecond = sampleRate / 1000
)

// alertSamples synthesizes the two-tone alert as signed 16-bit LE mono
// PCM: a low pitch followed by a higher one, each with a short linear
// fade at both ends to avoid clicks. Output is deterministic.
func alertSamples() []byte {
	low := toneSamples(lowPitchHz, toneDuration)
	high := toneSamples(highPitchHz, toneDuration)
	return append(low, high...)
}

func toneSamples(freq float64, numSamples int) []byte {
	out := make([]byte, numSamples*2)

	for i := 0; i < numSamples; i++ {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		v *= envelope(i, numSamples)

		sample := int16(v * math.MaxInt16)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}

	return out
}

// envelope applies a linear attack and release over fadeDuration
// samples.
func envelope(i, total int) float64 {
	if i < fadeDuration {
		return float64(i) / float64(fadeDuration)
	}
	if rem := total - i; rem < fadeDuration {
		return float64(rem) / float64(fadeDuration)
	}
	return 1.0
}
