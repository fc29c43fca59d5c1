package crt

// NTSC signal parameters. The engine samples the composite signal at four
// times the color subcarrier, which puts adjacent quadrature steps on
// adjacent samples and makes one output pixel one signal sample.
const (
	// SubcarrierHz is the NTSC color subcarrier frequency: 3.579545 MHz.
	SubcarrierHz = 3579545

	// ScanlinesPerField is the scanline count of one interlaced field.
	ScanlinesPerField = 262

	// FieldsPerSecond is the nominal vertical rate.
	FieldsPerSecond = 60

	// samplesPerCycle is the signal samples per subcarrier cycle, one per
	// quadrature step of the phase reference table.
	samplesPerCycle = 4
)
