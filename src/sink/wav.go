package sink

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/faiface/beep"
	"github.com/pkg/errors"
)

// SampleRate of everything this package writes
const SampleRate beep.SampleRate = 44100

// CD is 16 bit stereo at 44.1kHz
var CD = beep.Format{SampleRate: SampleRate, NumChannels: Stereo, Precision: 2}

// header is the canonical 44 byte RIFF/WAVE PCM header
type header struct {
	RiffMark      [4]byte
	FileSize      int32
	WaveMark      [4]byte
	FmtMark       [4]byte
	FormatSize    int32
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
	DataMark      [4]byte
	DataSize      int32
}

const headerSize = 44

func newHeader(format beep.Format, dataSize int) header {
	return header{
		RiffMark:      [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      int32(headerSize - 8 + dataSize),
		WaveMark:      [4]byte{'W', 'A', 'V', 'E'},
		FmtMark:       [4]byte{'f', 'm', 't', ' '},
		FormatSize:    16,
		FormatType:    1,
		NumChans:      int16(format.NumChannels),
		SampleRate:    int32(format.SampleRate),
		ByteRate:      int32(int(format.SampleRate) * format.Width()),
		BytesPerFrame: int16(format.Width()),
		BitsPerSample: int16(format.Precision * 8),
		DataMark:      [4]byte{'d', 'a', 't', 'a'},
		DataSize:      int32(dataSize),
	}
}

// WavStream writes interleaved float samples straight to a PCM WAV file.
// A placeholder header goes out first; Close rewrites it with the final
// sizes once the length is known.
type WavStream struct {
	dest   io.WriteSeeker
	format beep.Format
	pcm    []byte
	data   int
}

// NewWav encodes into dest, which is closed along with the stream if it is
// an io.Closer. The placeholder header is written immediately.
func NewWav(dest io.WriteSeeker, format beep.Format) (*WavStream, error) {
	if format.NumChannels != Stereo {
		return nil, errors.Wrapf(ErrChannels, "wav format has %d", format.NumChannels)
	}
	if format.Precision < 1 || format.Precision > 3 {
		return nil, errors.Errorf("wav: unsupported precision %d", format.Precision)
	}
	w := &WavStream{dest: dest, format: format}
	if err := binary.Write(dest, binary.LittleEndian, newHeader(format, 0)); err != nil {
		return nil, errors.Wrap(err, "write wav header")
	}
	return w, nil
}

// CreateWav creates (or truncates) the file at path
func CreateWav(path string, format beep.Format) (*WavStream, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "open output")
	}
	w, err := NewWav(file, format)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// WriteSamples encodes whole frames and writes them to the file. A trailing
// half frame is refused. If the file takes only part of the batch, the
// frames it did take are counted, any torn frame is backed out, and the
// error wraps ErrShortWrite.
func (w *WavStream) WriteSamples(samples []float64) (int, error) {
	frames := len(samples) / Stereo
	width := w.format.Width()
	if cap(w.pcm) < frames*width {
		w.pcm = make([]byte, frames*width)
	}
	pcm := w.pcm[:frames*width]

	p := pcm
	for i := 0; i < frames; i++ {
		p = p[w.format.EncodeSigned(p, [2]float64{samples[Stereo*i], samples[Stereo*i+1]}):]
	}

	n, err := w.dest.Write(pcm)
	whole := n - n%width
	w.data += whole
	if torn := n - whole; torn > 0 {
		if _, serr := w.dest.Seek(int64(-torn), io.SeekCurrent); serr != nil {
			return whole / width * Stereo, errors.Wrap(serr, "rewind torn frame")
		}
	}
	if err != nil || n < len(pcm) {
		return whole / width * Stereo, errors.Wrapf(ErrShortWrite, "wav took %d of %d bytes: %v", n, len(pcm), err)
	}
	return frames * Stereo, nil
}

// Frames is the number of frames written so far
func (w *WavStream) Frames() int { return w.data / w.format.Width() }

// Close rewrites the header with the final sizes and closes the destination
func (w *WavStream) Close() error {
	err := w.finalise()
	if c, ok := w.dest.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close output")
		}
	}
	return err
}

func (w *WavStream) finalise() error {
	if _, err := w.dest.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "seek to wav header")
	}
	if err := binary.Write(w.dest, binary.LittleEndian, newHeader(w.format, w.data)); err != nil {
		return errors.Wrap(err, "finalise wav header")
	}
	if _, err := w.dest.Seek(0, io.SeekEnd); err != nil {
		return errors.Wrap(err, "seek to wav end")
	}
	return nil
}
