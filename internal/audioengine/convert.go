package audioengine

import "encoding/binary"

// pcmToFloat32 converts a little-endian interleaved PCM buffer of the
// given bit depth into interleaved f32 samples in [-1, 1], the shape
// internal/output.Write expects regardless of which decoder produced the
// bytes (spec §4.2: "decoders.AudioDecoder implementations yield raw PCM
// at their native bit depth; the Audio Engine normalizes to f32 before
// handing samples to Output").
func pcmToFloat32(buf []byte, bps int, out []float32) []float32 {
	switch bps {
	case 16:
		n := len(buf) / 2
		out = growFloat32(out, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(buf[i*2:]))
			out[i] = float32(v) / 32768
		}
	case 24:
		n := len(buf) / 3
		out = growFloat32(out, n)
		for i := 0; i < n; i++ {
			b0, b1, b2 := buf[i*3], buf[i*3+1], buf[i*3+2]
			v := int32(b0) | int32(b1)<<8 | int32(b2)<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			out[i] = float32(v) / 8388608
		}
	case 32:
		n := len(buf) / 4
		out = growFloat32(out, n)
		for i := 0; i < n; i++ {
			v := int32(binary.LittleEndian.Uint32(buf[i*4:]))
			out[i] = float32(v) / 2147483648
		}
	default:
		n := len(buf) / 2
		out = growFloat32(out, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(buf[i*2:]))
			out[i] = float32(v) / 32768
		}
	}
	return out
}

func growFloat32(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}
