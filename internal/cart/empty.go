package cart

// Empty stands in for an unpopulated slot: every read floats high.
type Empty struct{}

func (Empty) Read(addr uint16) byte { return 0xFF }

func (Empty) Write(addr uint16, value byte) {}

func (e Empty) ReadRange(lo, hi uint16) []byte { return readRange(e, lo, hi) }
