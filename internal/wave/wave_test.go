package wave

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekBuf struct {
	buf bytes.Buffer
	pos int
	data []byte
}

func newSeekBuf() *seekBuf { return &seekBuf{} }

func (s *seekBuf) Write(p []byte) (int, error) {
	end := s.pos + len(p)
	if end > len(s.data) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	copy(s.data[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekStart {
		panic("unsupported")
	}
	s.pos = int(offset)
	return offset, nil
}

func TestHeaderFields(t *testing.T) {
	buf := newSeekBuf()
	w := NewWriter(buf, Parameters{ChannelCount: 1, SampleRate: 44100})
	require.NoError(t, w.Write([]float32{0, 0.5, -0.5, 1, -1}))
	require.NoError(t, w.Finish())

	data := buf.data
	require.GreaterOrEqual(t, len(data), headerSize)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(10), binary.LittleEndian.Uint32(data[40:44]))
}

func TestClipping(t *testing.T) {
	buf := newSeekBuf()
	w := NewWriter(buf, Parameters{ChannelCount: 1, SampleRate: 8000})
	require.NoError(t, w.Write([]float32{2, -2}))
	require.NoError(t, w.Finish())
	s0 := int16(binary.LittleEndian.Uint16(buf.data[44:46]))
	s1 := int16(binary.LittleEndian.Uint16(buf.data[46:48]))
	assert.Equal(t, int16(32767), s0)
	assert.Equal(t, int16(-32768), s1)
}

func TestBufferFlushAcrossChunks(t *testing.T) {
	buf := newSeekBuf()
	w := NewWriter(buf, Parameters{ChannelCount: 2, SampleRate: 48000})
	samples := make([]float32, 40000)
	require.NoError(t, w.Write(samples))
	require.NoError(t, w.Finish())
	frameCount := binary.LittleEndian.Uint32(buf.data[40:44]) / 4
	assert.Equal(t, uint32(20000), frameCount)
}
