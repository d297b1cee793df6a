package beep

import "math"

// tone synthesizes a mono sine burst with an exponential decay envelope.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

// doubleTone is two identical bursts separated by silence.
func doubleTone(freq, beepDur, gapDur, volume, decay float64) []int16 {
	burst := tone(freq, beepDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur))
	result := make([]int16, 0, len(burst)*2+len(gap))
	result = append(result, burst...)
	result = append(result, gap...)
	result = append(result, burst...)
	return result
}
