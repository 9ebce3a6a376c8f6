package ui

// Config contains window and display settings.
type Config struct {
	Title   string // window title
	Scale   int    // integer upscaling factor
	Palette string // shade tint name; empty picks one from the cartridge title
	Status  bool   // show the status line overlay
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
