// Package player plays rendered audio buffers live through the host's
// default output device, for the CLI's -play flag.
package player

import (
	"github.com/gordonklaus/portaudio"
)

// Player is a live-playback sink over a single-channel PortAudio output
// stream.
type Player struct {
	stream *portaudio.Stream
	buf    []float32
}

// Open initializes PortAudio and starts an output stream at the given
// sample rate, as a blocking stream with a fixed-size write buffer.
func Open(sampleRate float64, bufferSize int) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	p := &Player{buf: make([]float32, bufferSize)}
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, bufferSize, p.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	p.stream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	return p, nil
}

// Write plays samples, blocking until the underlying stream accepts
// them. Samples are written in chunks sized to the stream's buffer.
func (p *Player) Write(data []float32) error {
	for len(data) > 0 {
		n := copy(p.buf, data)
		for i := n; i < len(p.buf); i++ {
			p.buf[i] = 0
		}
		if err := p.stream.Write(); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Close stops the stream and releases PortAudio's global state.
func (p *Player) Close() error {
	err := p.stream.Stop()
	if cerr := p.stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
