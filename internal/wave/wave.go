// Package wave writes 16-bit PCM WAVE (RIFF) files from float32 sample
// buffers, dithering with a rectangular random variate on the way down.
package wave

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/depp/ultrafxr/internal/pcg"
)

// Parameters describes the format of a WAVE file.
type Parameters struct {
	ChannelCount uint32
	SampleRate   uint32
}

const headerSize = 44

func (p Parameters) header(frameCount uint32) [headerSize]byte {
	const bitsPerByte = 8
	const sampleSizeBytes = 2
	frameSizeBytes := p.ChannelCount * sampleSizeBytes
	dataLength := frameCount * frameSizeBytes

	var buf [headerSize]byte
	pos := 0
	putStr := func(s string) {
		copy(buf[pos:pos+4], s)
		pos += 4
	}
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[pos:pos+4], v)
		pos += 4
	}
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(buf[pos:pos+2], v)
		pos += 2
	}

	putStr("RIFF")
	putU32(dataLength + 36)
	putStr("WAVE")
	putStr("fmt ")
	putU32(16)
	putU16(1)
	putU16(uint16(p.ChannelCount))
	putU32(p.SampleRate)
	putU32(p.SampleRate * frameSizeBytes)
	putU16(uint16(frameSizeBytes))
	putU16(sampleSizeBytes * bitsPerByte)
	putStr("data")
	putU32(dataLength)
	return buf
}

// SeekWriter is the stream interface a Writer writes to: the header at
// the start must be patched once the final sample count is known.
type SeekWriter interface {
	io.Writer
	io.Seeker
}

const bufferSize = 32 * 1024

// Writer buffers and dithers floating-point samples into a 16-bit PCM
// WAVE file, patching the header once Finish is called.
type Writer struct {
	stream      SeekWriter
	buf         []byte
	bufPos      int
	sampleCount int
	rand        pcg.Rand
	parameters  Parameters
}

// NewWriter creates a Writer over stream. The stream must support
// seeking back to the start, since the header's length fields are
// written only once the total sample count is known.
func NewWriter(stream SeekWriter, parameters Parameters) *Writer {
	return &Writer{
		stream:     stream,
		buf:        make([]byte, bufferSize),
		bufPos:     headerSize,
		rand:       pcg.WithDefaultSeed(),
		parameters: parameters,
	}
}

// Write converts and dithers floating-point samples to 16-bit PCM and
// buffers them, flushing to the stream as the buffer fills.
func (w *Writer) Write(data []float32) error {
	for len(data) > 0 {
		space := (len(w.buf) - w.bufPos) / 2
		n := len(data)
		if n > space {
			n = space
		}
		for i := 0; i < n; i++ {
			r := w.rand.NextFloat()
			x := math.Floor(float64(data[i])*32768.0 + float64(r))
			var s int16
			switch {
			case x > math.MaxInt16:
				s = math.MaxInt16
			case x < math.MinInt16:
				s = math.MinInt16
			default:
				s = int16(x)
			}
			binary.LittleEndian.PutUint16(w.buf[w.bufPos:], uint16(s))
			w.bufPos += 2
		}
		data = data[n:]
		w.sampleCount += n
		if w.bufPos == len(w.buf) {
			if _, err := w.stream.Write(w.buf); err != nil {
				return err
			}
			w.bufPos = 0
		}
	}
	return nil
}

// Finish flushes any buffered samples and writes the final header.
func (w *Writer) Finish() error {
	if w.bufPos > 0 {
		if _, err := w.stream.Write(w.buf[:w.bufPos]); err != nil {
			return err
		}
	}
	frameCount := uint32(w.sampleCount / int(w.parameters.ChannelCount))
	header := w.parameters.header(frameCount)
	if _, err := w.stream.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := w.stream.Write(header[:])
	return err
}
