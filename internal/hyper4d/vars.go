package hyper4d

var (
	Debug = false // set to true to print per-frame statistics in headless runs
	PNG   = false // set to true to save a 16-bit PNG sequence instead of a GIF
	// Compile time checks that both backends satisfy the device contract
	_ Device = (*SoftDevice)(nil)
	_ Target = (*Frame)(nil)
)
