package responses

// VaultStateResponse is the full public state of the ledger. All uint256
// quantities are rendered as decimal strings.
type VaultStateResponse struct {
	Object             string `json:"object"`
	Name               string `json:"name"`
	Symbol             string `json:"symbol"`
	Decimals           uint8  `json:"decimals"`
	APIVersion         string `json:"api_version"`
	Address            string `json:"address"`
	Owner              string `json:"owner"`
	ChainID            string `json:"chain_id"`
	TotalSupply        string `json:"total_supply"`
	TotalAssets        string `json:"total_assets"`
	TotalIdle          string `json:"total_idle"`
	TotalDebt          string `json:"total_debt"`
	PricePerShare      string `json:"price_per_share"`
	DepositLimit       string `json:"deposit_limit"`
	MaxAvailableShares string `json:"max_available_shares"`
	EmergencyShutdown  bool   `json:"emergency_shutdown"`
}

// PricePerShareResponse reports the value of one share in underlying token
// units
type PricePerShareResponse struct {
	Object        string `json:"object"`
	PricePerShare string `json:"price_per_share"`
	Decimals      uint8  `json:"decimals"`
}

// BalanceResponse reports a holder's share balance
type BalanceResponse struct {
	Object string `json:"object"`
	Holder string `json:"holder"`
	Shares string `json:"shares"`
}

// AllowanceResponse reports the remaining allowance of a spender. Unlimited
// is set when the grant is the never-decremented sentinel.
type AllowanceResponse struct {
	Object    string `json:"object"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Remaining string `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

// NonceResponse reports the next expected permit nonce for a holder
type NonceResponse struct {
	Object string `json:"object"`
	Holder string `json:"holder"`
	Nonce  uint64 `json:"nonce"`
}

// DepositResponse reports the outcome of a deposit
type DepositResponse struct {
	Object       string `json:"object"`
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	Amount       string `json:"amount"`
	SharesMinted string `json:"shares_minted"`
	TotalSupply  string `json:"total_supply"`
	TotalAssets  string `json:"total_assets"`
}

// WithdrawResponse reports the outcome of a withdrawal
type WithdrawResponse struct {
	Object       string `json:"object"`
	Sender       string `json:"sender"`
	Recipient    string `json:"recipient"`
	SharesBurned string `json:"shares_burned"`
	Amount       string `json:"amount"`
	TotalSupply  string `json:"total_supply"`
	TotalAssets  string `json:"total_assets"`
}

// TransferResponse reports the outcome of a direct or delegated transfer
type TransferResponse struct {
	Object           string `json:"object"`
	From             string `json:"from"`
	To               string `json:"to"`
	Shares           string `json:"shares"`
	FromBalance      string `json:"from_balance"`
	ToBalance        string `json:"to_balance"`
	SpenderAllowance string `json:"spender_allowance,omitempty"`
}

// ApprovalResponse reports the allowance after an approval operation
type ApprovalResponse struct {
	Object    string `json:"object"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Remaining string `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

// PermitResponse reports the outcome of a permit submission
type PermitResponse struct {
	Object    string `json:"object"`
	Holder    string `json:"holder"`
	Spender   string `json:"spender"`
	Allowed   bool   `json:"allowed"`
	NextNonce uint64 `json:"next_nonce"`
}

// PermitDigestResponse carries the EIP-712 digest to sign
type PermitDigestResponse struct {
	Object string `json:"object"`
	Digest string `json:"digest"`
	Nonce  uint64 `json:"nonce"`
	Expiry uint64 `json:"expiry"`
}

// VaultEventResponse is one archived ledger event
type VaultEventResponse struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	Kind         string `json:"kind"`
	VaultAddress string `json:"vault_address"`
	FromAddress  string `json:"from_address"`
	ToAddress    string `json:"to_address"`
	Amount       string `json:"amount"`
	CreatedAt    int64  `json:"created_at"`
}

// ListVaultEventsResponse is the paginated event archive listing
type ListVaultEventsResponse struct {
	Object  string               `json:"object"`
	Data    []VaultEventResponse `json:"data"`
	HasMore bool                 `json:"has_more"`
	Total   int64                `json:"total"`
}
