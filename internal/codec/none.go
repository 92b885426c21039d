package codec

import "io"

type none struct{}

// None returns a codec that passes data through unchanged.
func None() Codec {
	return none{}
}

func (none) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (none) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (none) Extension() string {
	return ""
}
