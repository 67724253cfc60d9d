package enums

import "fmt"

// TokenSymbol enumerates the currencies a donation can be made in.
type TokenSymbol string

const (
	// TokenUSDC is the stablecoin option.
	TokenUSDC TokenSymbol = "USDC"
	// TokenRLF is the relief chain's native token.
	TokenRLF TokenSymbol = "RLF"
)

var validTokenSymbols = []TokenSymbol{
	TokenUSDC,
	TokenRLF,
}

// DefaultTokenSymbol is the pre-selected currency for a fresh wizard session.
const DefaultTokenSymbol = TokenUSDC

// String implements fmt.Stringer.
func (t TokenSymbol) String() string {
	return string(t)
}

// IsValid reports whether the token is recognized.
func (t TokenSymbol) IsValid() bool {
	for _, candidate := range validTokenSymbols {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTokenSymbol converts a raw string into a TokenSymbol.
func ParseTokenSymbol(value string) (TokenSymbol, error) {
	for _, candidate := range validTokenSymbols {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid token symbol %q", value)
}
