package raster

import(
	"encoding/binary"
	"fmt"
	"math"
)

// x/image/tiff always writes a bogus 72x72dpi resolution. Rather than
// fork the encoder we patch the two rational values in place, in the
// encoded bytes; the IFD layout doesn't change, so nothing else moves.
func setTIFFResolution(b []byte, dpi float64) error {
	if len(b) < 8 {
		return fmt.Errorf("tiff resolution: short file")
	}

	var order binary.ByteOrder
	switch string(b[0:2]) {
	case "II": order = binary.LittleEndian
	case "MM": order = binary.BigEndian
	default:
		return fmt.Errorf("tiff resolution: bad byte order %q", b[0:2])
	}

	ifd := int(order.Uint32(b[4:8]))
	if ifd+2 > len(b) {
		return fmt.Errorf("tiff resolution: IFD offset %d out of range", ifd)
	}

	nEntries := int(order.Uint16(b[ifd:]))
	num := uint32(math.Round(dpi * 100))
	patched := 0

	for i:=0; i<nEntries; i++ {
		e := ifd + 2 + 12*i
		if e+12 > len(b) {
			return fmt.Errorf("tiff resolution: IFD entry %d out of range", i)
		}

		tag := order.Uint16(b[e:])
		typ := order.Uint16(b[e+2:])
		if (tag != tagXResolution && tag != tagYResolution) || typ != 5 { // 5 == RATIONAL
			continue
		}

		off := int(order.Uint32(b[e+8:]))
		if off+8 > len(b) {
			return fmt.Errorf("tiff resolution: value offset %d out of range", off)
		}
		order.PutUint32(b[off:], num)
		order.PutUint32(b[off+4:], 100)
		patched++
	}

	if patched != 2 {
		return fmt.Errorf("tiff resolution: found %d resolution tags, wanted 2", patched)
	}
	return nil
}
