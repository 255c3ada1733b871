package helpers

// IsAddressValid performs a basic sanity check on an EVM address string.
func IsAddressValid(address string) bool {
	if len(address) != 42 {
		return false
	}
	if address[0] != '0' || (address[1] != 'x' && address[1] != 'X') {
		return false
	}
	for _, c := range address[2:] {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// IsPrivateKeyValid performs a basic sanity check on a hex-encoded private key string.
func IsPrivateKeyValid(key string) bool {
	if len(key) != 66 {
		return false
	}
	if key[0] != '0' || (key[1] != 'x' && key[1] != 'X') {
		return false
	}
	for _, c := range key[2:] {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
