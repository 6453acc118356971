package listener

import "encoding/binary"

// wavHeaderSize is the byte length of a canonical PCM WAV header.
const wavHeaderSize = 44

// EncodeWAV renders PCM16 mono samples as a complete WAV file.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 0, wavHeaderSize+dataSize)

	// RIFF chunk.
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, "WAVE"...)

	// fmt chunk: PCM, mono, 16-bit.
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*2))
	buf = binary.LittleEndian.AppendUint16(buf, 2)
	buf = binary.LittleEndian.AppendUint16(buf, 16)

	// data chunk.
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	for _, s := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
	}
	return buf
}
