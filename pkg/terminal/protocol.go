package terminal

import (
	"os"
	"strings"
)

// GraphicsProtocol identifies how the ring raster reaches the screen.
type GraphicsProtocol int

const (
	ProtocolNone       GraphicsProtocol = iota // text-only compact view
	ProtocolKitty                              // Kitty graphics protocol
	ProtocolITerm2                             // iTerm2 inline images
	ProtocolSixel                              // Sixel
	ProtocolHalfblocks                         // ▀ cells with 24-bit fg/bg
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

// String returns the protocol name as accepted by ParseProtocol.
func (p GraphicsProtocol) String() string {
	if p >= 0 && int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol maps a user-facing name onto a protocol. "auto" and the
// empty string report ok=false so callers fall back to detection.
func ParseProtocol(name string) (GraphicsProtocol, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kitty":
		return ProtocolKitty, true
	case "iterm2":
		return ProtocolITerm2, true
	case "sixel":
		return ProtocolSixel, true
	case "halfblocks", "half-blocks", "unicode":
		return ProtocolHalfblocks, true
	case "none", "off", "text":
		return ProtocolNone, true
	}
	return ProtocolNone, false
}

// SelectProtocol returns the best protocol for term. Image protocols are
// unreliable through ssh, so remote sessions use halfblocks.
func SelectProtocol(term Terminal) GraphicsProtocol {
	if isSSH() {
		return ProtocolHalfblocks
	}
	switch {
	case term.SupportsKittyGraphics():
		return ProtocolKitty
	case term.SupportsITerm2Images():
		return ProtocolITerm2
	}
	return ProtocolHalfblocks
}

// SelectProtocolWithOverride honours a configured protocol name and falls
// back to SelectProtocol for "auto", empty or unknown names.
func SelectProtocolWithOverride(term Terminal, override string) GraphicsProtocol {
	if p, ok := ParseProtocol(override); ok {
		return p
	}
	return SelectProtocol(term)
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}
