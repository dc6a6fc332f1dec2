// Package rmlink implements the host side of the transmitter configuration link.
package rmlink

// The link is a plain byte stream (usually USB CDC serial). Commands sent to
// the device are short fixed frames ending with CR LF. Frames coming back are
// discriminated by the first byte:
//
//	FF  device information, fixed layout
//	22  channel telemetry, length prefixed
//	56  optional header of an extended (ELRS) buffer made of sub-frames
//
// Extended sub-frames carry parameter chunks which are accumulated per
// parameter and decoded once enough bytes have arrived. There is no final
// chunk marker on the wire so decoding is retried whenever a chunk lands.
//
// Producer: transmitter firmware
// Consumer: host tools (rmlinkd, rmcli)
