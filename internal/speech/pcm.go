package speech

// Synthesized audio arrives as interleaved linear PCM, signed 16-bit
// little-endian, 24 kHz mono.

// DecodePCM converts raw s16le bytes into a normalized waveform in
// [-1, 1]. A trailing odd byte is ignored.
func DecodePCM(data []byte) []float64 {
	n := len(data) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		samples[i] = float64(v) / 32768.0
	}
	return samples
}

// EncodePCM converts a normalized waveform back to s16le bytes,
// clamping out-of-range samples.
func EncodePCM(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767.0)
		out[2*i] = byte(uint16(v))
		out[2*i+1] = byte(uint16(v) >> 8)
	}
	return out
}
