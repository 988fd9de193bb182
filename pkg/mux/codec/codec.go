package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// compressedMask flags a frame's length as zstd-compressed by setting the
// high bit; payloads are small enough that this never collides with a
// legitimate length.
const compressedMask uint64 = 1 << 63

// compressThreshold is the largest uncompressed payload size that is sent
// without trying zstd at all; at or below it the zstd frame overhead almost
// always loses to just sending the bytes.
const compressThreshold = 32

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
}

func uvarintLen(v uint64) int {
	var buf [binary.MaxVarintLen64]byte
	return binary.PutUvarint(buf[:], v)
}

// Encode serializes a Pdu's payload (via encoding/json, compressing it
// with zstd if that comes out strictly smaller) and writes the framed
// result: leb128 tagged-length, serial, ident, then data.
func Encode(w io.Writer, serial uint64, payload interface{}) error {
	ident, ok := identFor(payload)
	if !ok {
		return fmt.Errorf("codec: unregistered payload type %T", payload)
	}

	uncompressed, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("codec: marshal %T: %w", payload, err)
	}

	data := uncompressed
	compressed := false
	if len(uncompressed) > compressThreshold {
		if z := zstdEncoder.EncodeAll(uncompressed, nil); len(z) < len(uncompressed) {
			data = z
			compressed = true
		}
	}

	length := uint64(len(data)) + uint64(uvarintLen(uint64(ident))) + uint64(uvarintLen(serial))
	taggedLen := length
	if compressed {
		taggedLen |= compressedMask
	}

	var header bytes.Buffer
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], taggedLen)
	header.Write(buf[:n])
	n = binary.PutUvarint(buf[:], serial)
	header.Write(buf[:n])
	n = binary.PutUvarint(buf[:], uint64(ident))
	header.Write(buf[:n])

	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads one framed Pdu from r, blocking until a full frame (or an
// error) is available.
func Decode(r io.Reader) (*Pdu, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufByteReader{r}
	}

	taggedLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	compressed := taggedLen&compressedMask != 0
	length := taggedLen &^ compressedMask

	serial, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	identVal, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	ident := Ident(identVal)

	dataLen := int64(length) - int64(uvarintLen(identVal)) - int64(uvarintLen(serial))
	if dataLen < 0 {
		return nil, fmt.Errorf("codec: negative data length in frame")
	}

	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}

	if compressed {
		data, err = zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("codec: zstd decode: %w", err)
		}
	}

	payload, ok := payloadFor(ident)
	if !ok {
		return &Pdu{Serial: serial, Ident: ident, Payload: &ErrorResponse{Reason: fmt.Sprintf("unknown pdu ident %d", ident)}}, nil
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, payload); err != nil {
			return nil, fmt.Errorf("codec: unmarshal ident %d: %w", ident, err)
		}
	}
	return &Pdu{Serial: serial, Ident: ident, Payload: payload}, nil
}

// bufByteReader adapts an io.Reader with no ReadByte of its own (rare in
// practice, since most real transports are *bufio.Reader or net.Conn-ish)
// so binary.ReadUvarint always has one to call.
type bufByteReader struct{ io.Reader }

func (b bufByteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b.Reader, buf[:])
	return buf[0], err
}

// StreamDecode attempts to decode one Pdu from the front of buf without
// blocking for more data. It returns (nil, 0, false) if buf does not yet
// hold a complete frame; the caller should append more bytes read from the
// transport and try again. On success it returns the decoded Pdu and the
// number of bytes consumed, which the caller should drop from the front of
// buf.
func StreamDecode(buf []byte) (pdu *Pdu, consumed int, ok bool) {
	r := bytes.NewReader(buf)
	p, err := Decode(r)
	if err != nil {
		return nil, 0, false
	}
	return p, len(buf) - r.Len(), true
}
