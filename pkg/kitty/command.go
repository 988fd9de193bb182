// Package kitty implements the Kitty terminal graphics protocol: parsing
// the APC `G<key=value,...>;<payload>` control sequence, decoding
// transmitted image data, and tracking images and their on-screen
// placements under a bounded memory budget.
package kitty

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"strconv"
)

// Action selects what a Command asks the terminal to do.
type Action byte

const (
	ActionTransmit        Action = 't' // transmit image data only
	ActionTransmitDisplay Action = 'T' // transmit and display
	ActionQuery           Action = 'q' // query support, do not store
	ActionDisplay         Action = 'p' // display a previously transmitted image
	ActionDelete          Action = 'd' // delete images and/or placements
)

// Transmission selects how payload bytes reach the terminal. Only Direct
// is implemented; file- and shared-memory-backed transmission require
// filesystem access the core terminal model does not have and are
// rejected with an error response.
type Transmission byte

const (
	TransmitDirect    Transmission = 'd'
	TransmitFile      Transmission = 'f'
	TransmitTempFile  Transmission = 't'
	TransmitSharedMem Transmission = 's'
)

// Format selects how Payload bytes decode into RGBA pixels.
type Format uint32

const (
	FormatRGB  Format = 24
	FormatRGBA Format = 32
	FormatPNG  Format = 100
)

// DeleteSelector selects which images and placements a 'd' action
// removes. The uppercase variant additionally frees the backing image
// data; the lowercase variant removes only the placement.
type DeleteSelector byte

const (
	DeleteAll          DeleteSelector = 'a'
	DeleteAllData      DeleteSelector = 'A'
	DeleteByID         DeleteSelector = 'i'
	DeleteByIDData     DeleteSelector = 'I'
	DeleteByNumber     DeleteSelector = 'n'
	DeleteByNumberData DeleteSelector = 'N'
	DeleteAtCursor     DeleteSelector = 'c'
	DeleteAtCursorData DeleteSelector = 'C'
	DeleteAtPos        DeleteSelector = 'p'
	DeleteAtPosData    DeleteSelector = 'P'
	DeleteByColumn     DeleteSelector = 'x'
	DeleteByColumnData DeleteSelector = 'X'
	DeleteByRow        DeleteSelector = 'y'
	DeleteByRowData    DeleteSelector = 'Y'
	DeleteByZIndex     DeleteSelector = 'z'
	DeleteByZIndexData DeleteSelector = 'Z'
)

// hasData reports whether sel additionally frees backing image data
// (every uppercase selector).
func (sel DeleteSelector) hasData() bool {
	return sel >= 'A' && sel <= 'Z'
}

// Command is one parsed Kitty graphics control sequence.
type Command struct {
	Action       Action
	Transmission Transmission
	Format       Format
	Compression  byte // 'z' for zlib, 0 for none

	ImageID     uint32 // i=
	ImageNumber uint32 // I=
	PlacementID uint32 // p=

	Width  uint32 // s=
	Height uint32 // v=
	Size   uint32 // S=
	Offset uint32 // O=
	More   bool   // m=1 means another chunk follows

	SrcX, SrcY      uint32 // x=, y=
	SrcW, SrcH      uint32 // w=, h=
	Cols, Rows      uint32 // c=, r=
	CellOffsetX     uint32 // X=
	CellOffsetY     uint32 // Y=
	ZIndex          int32  // z=
	DoNotMoveCursor bool   // C=1

	Delete DeleteSelector // d=

	Quiet uint32 // q=

	Payload []byte // base64-decoded payload bytes
}

// Parse decodes a Kitty graphics APC body: the bytes between `ESC _ G`
// and the terminating ST, with or without the leading 'G'.
func Parse(data []byte) (*Command, error) {
	cmd := &Command{
		Action:       ActionTransmitDisplay,
		Transmission: TransmitDirect,
		Format:       FormatRGBA,
	}

	if len(data) > 0 && data[0] == 'G' {
		data = data[1:]
	}

	sepIdx := bytes.IndexByte(data, ';')
	var controlData, payload []byte
	if sepIdx >= 0 {
		controlData, payload = data[:sepIdx], data[sepIdx+1:]
	} else {
		controlData = data
	}

	if len(controlData) > 0 {
		for _, pair := range bytes.Split(controlData, []byte(",")) {
			eqIdx := bytes.IndexByte(pair, '=')
			if eqIdx <= 0 {
				continue
			}
			key := pair[0]
			value := pair[eqIdx+1:]
			switch key {
			case 'a':
				if len(value) > 0 {
					cmd.Action = Action(value[0])
				}
			case 't':
				if len(value) > 0 {
					cmd.Transmission = Transmission(value[0])
				}
			case 'f':
				cmd.Format = Format(parseUint32(value))
			case 'o':
				if len(value) > 0 {
					cmd.Compression = value[0]
				}
			case 'i':
				cmd.ImageID = parseUint32(value)
			case 'I':
				cmd.ImageNumber = parseUint32(value)
			case 'p':
				cmd.PlacementID = parseUint32(value)
			case 's':
				cmd.Width = parseUint32(value)
			case 'v':
				cmd.Height = parseUint32(value)
			case 'S':
				cmd.Size = parseUint32(value)
			case 'O':
				cmd.Offset = parseUint32(value)
			case 'm':
				cmd.More = parseUint32(value) == 1
			case 'x':
				cmd.SrcX = parseUint32(value)
			case 'y':
				cmd.SrcY = parseUint32(value)
			case 'w':
				cmd.SrcW = parseUint32(value)
			case 'h':
				cmd.SrcH = parseUint32(value)
			case 'c':
				cmd.Cols = parseUint32(value)
			case 'r':
				cmd.Rows = parseUint32(value)
			case 'X':
				cmd.CellOffsetX = parseUint32(value)
			case 'Y':
				cmd.CellOffsetY = parseUint32(value)
			case 'z':
				cmd.ZIndex = parseInt32(value)
			case 'C':
				cmd.DoNotMoveCursor = parseUint32(value) == 1
			case 'd':
				if len(value) > 0 {
					cmd.Delete = DeleteSelector(value[0])
				}
			case 'q':
				cmd.Quiet = parseUint32(value)
			}
		}
	}

	if len(payload) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(string(payload))
			if err != nil {
				return nil, fmt.Errorf("kitty: decode base64 payload: %w", err)
			}
		}
		cmd.Payload = decoded
	}

	return cmd, nil
}

// DecodeImage decompresses (if Compression == 'z') and decodes cmd.Payload
// into RGBA pixels plus the pixel dimensions.
func (cmd *Command) DecodeImage() (rgba []byte, width, height uint32, err error) {
	data := cmd.Payload

	if cmd.Compression == 'z' && len(data) > 0 {
		r, zerr := zlib.NewReader(bytes.NewReader(data))
		if zerr != nil {
			return nil, 0, 0, fmt.Errorf("kitty: open zlib stream: %w", zerr)
		}
		defer r.Close()
		decompressed, rerr := io.ReadAll(r)
		if rerr != nil {
			return nil, 0, 0, fmt.Errorf("kitty: inflate payload: %w", rerr)
		}
		data = decompressed
	}

	switch cmd.Format {
	case FormatPNG:
		return decodePNG(data)
	case FormatRGB:
		if cmd.Width == 0 || cmd.Height == 0 {
			return nil, 0, 0, fmt.Errorf("kitty: RGB format requires s= and v=")
		}
		expected := int(cmd.Width * cmd.Height * 3)
		if len(data) < expected {
			return nil, 0, 0, fmt.Errorf("kitty: short RGB payload: got %d want %d", len(data), expected)
		}
		out := make([]byte, cmd.Width*cmd.Height*4)
		for i := uint32(0); i < cmd.Width*cmd.Height; i++ {
			out[i*4+0] = data[i*3+0]
			out[i*4+1] = data[i*3+1]
			out[i*4+2] = data[i*3+2]
			out[i*4+3] = 255
		}
		return out, cmd.Width, cmd.Height, nil
	case FormatRGBA:
		if cmd.Width == 0 || cmd.Height == 0 {
			return nil, 0, 0, fmt.Errorf("kitty: RGBA format requires s= and v=")
		}
		expected := int(cmd.Width * cmd.Height * 4)
		if len(data) < expected {
			return nil, 0, 0, fmt.Errorf("kitty: short RGBA payload: got %d want %d", len(data), expected)
		}
		return data[:expected], cmd.Width, cmd.Height, nil
	default:
		return nil, 0, 0, fmt.Errorf("kitty: unsupported format %d", cmd.Format)
	}
}

func decodePNG(data []byte) ([]byte, uint32, uint32, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("kitty: decode PNG: %w", err)
	}
	bounds := img.Bounds()
	width, height := uint32(bounds.Dx()), uint32(bounds.Dy())
	rgba := make([]byte, width*height*4)
	for y := 0; y < int(height); y++ {
		for x := 0; x < int(width); x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			off := (uint32(y)*width + uint32(x)) * 4
			rgba[off+0] = uint8(r >> 8)
			rgba[off+1] = uint8(g >> 8)
			rgba[off+2] = uint8(b >> 8)
			rgba[off+3] = uint8(a >> 8)
		}
	}
	return rgba, width, height, nil
}

func parseUint32(b []byte) uint32 {
	n, _ := strconv.ParseUint(string(b), 10, 32)
	return uint32(n)
}

func parseInt32(b []byte) int32 {
	n, _ := strconv.ParseInt(string(b), 10, 32)
	return int32(n)
}

// FormatResponse builds the `ESC _ G ... ESC \` reply the terminal sends
// back after processing a command, unless Quiet suppresses it.
func FormatResponse(imageID uint32, message string, isError bool) string {
	var b bytes.Buffer
	b.WriteString("\x1b_G")
	if imageID > 0 {
		fmt.Fprintf(&b, "i=%d", imageID)
	}
	b.WriteByte(';')
	if isError {
		b.WriteString(message)
	} else {
		b.WriteString("OK")
	}
	b.WriteString("\x1b\\")
	return b.String()
}
