package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var errShortImage = errors.New("ROM too small to contain header")

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

type Header struct {
	Title            string // 0x0134-0x0143 (trimmed ASCII)
	ManufacturerCode string // 0x013F-0x0142 (overlaps the title on newer carts)
	CGBFlag          byte   // 0x0143
	NewLicensee      string // 0x0144-0x0145 (ASCII), used when OldLicensee == 0x33
	SGBFlag          byte   // 0x0146
	CartType         byte   // 0x0147
	ROMSizeCode      byte   // 0x0148
	RAMSizeCode      byte   // 0x0149
	Destination      byte   // 0x014A
	OldLicensee      byte   // 0x014B
	ROMVersion       byte   // 0x014C
	HeaderChecksum   byte   // 0x014D
	GlobalChecksum   uint16 // 0x014E-0x014F

	// Decoded helpers
	LogoOK      bool
	ROMBanks    int
	RAMBanks    int
	CartTypeStr string
}

func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x0150 {
		return nil, fmt.Errorf("%w: %d bytes", errShortImage, len(rom))
	}

	h := &Header{
		Title:            strings.TrimRight(string(rom[0x0134:0x0144]), "\x00"),
		ManufacturerCode: strings.TrimRight(string(rom[0x013F:0x0143]), "\x00"),
		CGBFlag:          rom[0x0143],
		NewLicensee:      string(rom[0x0144:0x0146]),
		SGBFlag:          rom[0x0146],
		CartType:         rom[0x0147],
		ROMSizeCode:      rom[0x0148],
		RAMSizeCode:      rom[0x0149],
		Destination:      rom[0x014A],
		OldLicensee:      rom[0x014B],
		ROMVersion:       rom[0x014C],
		HeaderChecksum:   rom[0x014D],
		GlobalChecksum:   binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:           true,
	}
	// The logo is not enforced; test and homebrew images often omit it.
	for i := range nintendoLogo {
		if rom[0x0104+i] != nintendoLogo[i] {
			h.LogoOK = false
			break
		}
	}

	h.ROMBanks = ROMBanks(h.ROMSizeCode)
	h.RAMBanks = RAMBanks(h.RAMSizeCode)
	h.CartTypeStr = cartTypeString(h.CartType)
	return h, nil
}

func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

// ROMBanks returns the number of 16KB banks for a header ROM size code, 0 if unknown.
func ROMBanks(code byte) int {
	switch {
	case code <= 0x08:
		return 2 << code
	case code == 0x52:
		return 72
	case code == 0x53:
		return 80
	case code == 0x54:
		return 96
	default:
		return 0
	}
}

// RAMBanks returns the number of 8KB external RAM banks for a header RAM size code.
func RAMBanks(code byte) int {
	switch code {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

func cartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01:
		return "MBC1"
	case 0x02:
		return "MBC1+RAM"
	case 0x03:
		return "MBC1+RAM+BATTERY"
	case 0x05, 0x06:
		return "MBC2 (variants)"
	case 0x0F:
		return "MBC3+TIMER+BATTERY"
	case 0x10:
		return "MBC3+TIMER+RAM+BATTERY"
	case 0x11:
		return "MBC3"
	case 0x12:
		return "MBC3+RAM"
	case 0x13:
		return "MBC3+RAM+BATTERY"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}
