package domain

const (
	// Allowance unit token matched in cast text
	DEFAULT_TIP_TOKEN = "$degen"

	// Daily reset boundary (UTC)
	DEFAULT_RESET_HOUR   = 7
	DEFAULT_RESET_MINUTE = 35

	// DEGEN token on Base and the raindrop collection wallet
	DEGEN_CONTRACT_ADDRESS = "0x4ed4E862860beD51a9570b96d89aF5E1B0Efefed"
	DEGEN_RAIN_WALLET      = "0x14d2f413691Bc20cD9E7d87e2a88884E45e4Ab9d"

	// Share of raindrop deposits left after the collection fee, in percent
	RAINDROP_NET_PERCENT = 98
)
