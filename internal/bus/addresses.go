package bus

// Memory map boundaries.
const (
	ROMBank0Start   uint16 = 0x0000
	ROMBankNStart   uint16 = 0x4000
	VRAMStart       uint16 = 0x8000
	TileMap0        uint16 = 0x9800
	TileMap1        uint16 = 0x9C00
	ExtRAMStart     uint16 = 0xA000
	WRAMStart       uint16 = 0xC000
	EchoStart       uint16 = 0xE000
	OAMStart        uint16 = 0xFE00
	UnusableStart   uint16 = 0xFEA0
	IOStart         uint16 = 0xFF00
	HRAMStart       uint16 = 0xFF80
	BootROMSize            = 0x100
	VRAMSize               = 0x2000
	OAMSize                = 0xA0
	echoMirrorLimit uint16 = 0xFE00
)

// IO registers.
const (
	JOYP uint16 = 0xFF00
	SB   uint16 = 0xFF01
	SC   uint16 = 0xFF02
	DIV  uint16 = 0xFF04
	TIMA uint16 = 0xFF05
	TMA  uint16 = 0xFF06
	TAC  uint16 = 0xFF07
	IF   uint16 = 0xFF0F

	NR11 uint16 = 0xFF11
	NR14 uint16 = 0xFF14
	NR21 uint16 = 0xFF16
	NR24 uint16 = 0xFF19
	NR31 uint16 = 0xFF1B
	NR34 uint16 = 0xFF1E
	NR41 uint16 = 0xFF20
	NR44 uint16 = 0xFF23
	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26

	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	LY   uint16 = 0xFF44
	LYC  uint16 = 0xFF45
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	WX   uint16 = 0xFF4B

	// BOOT disables the boot ROM overlay when written with a non-zero value.
	BOOT uint16 = 0xFF50

	IE uint16 = 0xFFFF
)

// Color-console registers. Defined for completeness; double-speed mode and
// VRAM/WRAM banking are not emulated.
const (
	KEY1  uint16 = 0xFF4D
	VBK   uint16 = 0xFF4F
	HDMA1 uint16 = 0xFF51
	HDMA2 uint16 = 0xFF52
	HDMA3 uint16 = 0xFF53
	HDMA4 uint16 = 0xFF54
	HDMA5 uint16 = 0xFF55
	RP    uint16 = 0xFF56
	BCPS  uint16 = 0xFF68
	BCPD  uint16 = 0xFF69
	OCPS  uint16 = 0xFF6A
	OCPD  uint16 = 0xFF6B
	SVBK  uint16 = 0xFF70
)

// Interrupt flag bits shared by IF and IE.
const (
	IntVBlank uint = 0
	IntSTAT   uint = 1
	IntTimer  uint = 2
	IntSerial uint = 3
	IntJoypad uint = 4
)
