package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

type zstdCodec struct{}

// Zstd returns a zstd codec. Game log exports from Lichess are distributed
// zstd-compressed.
func Zstd() Codec {
	return zstdCodec{}
}

func (zstdCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (zstdCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

func (zstdCodec) Extension() string {
	return "zst"
}
