package common

// Discord color constants
const (
	ColorPrimary = 0x00B7EB // Cyan
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// CurrencyName is how balances are labelled in messages
const CurrencyName = "Cyan Dollars"
