package region

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressWidth is the number of hex digits used when rendering addresses.
const AddressWidth = 16

// FormatAddress renders addr as fixed-width lowercase hex without a prefix.
func FormatAddress(addr uint64) string {
	return fmt.Sprintf("%0*x", AddressWidth, addr)
}

// ParseAddress parses a hex address with or without a 0x prefix.
func ParseAddress(s string) (uint64, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if trimmed == "" {
		return 0, fmt.Errorf("region: empty address %q", s)
	}
	addr, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("region: invalid address %q: %w", s, err)
	}
	return addr, nil
}
