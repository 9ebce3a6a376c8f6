package emu

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace    bool // log every instruction before it executes
	SkipBoot bool // start from post-boot state even when a boot ROM is loaded
}
