package requests

// DepositRequest represents the request body for a deposit. Amount accepts a
// decimal string, a 0x-prefixed hex string, or "max"; when omitted the
// sender's full token balance is deposited.
type DepositRequest struct {
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

// WithdrawRequest represents the request body for a withdrawal. Shares
// accepts the same forms as DepositRequest.Amount; when omitted the sender's
// full share balance is redeemed.
type WithdrawRequest struct {
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient,omitempty"`
	Shares    string `json:"shares,omitempty"`
}

// TransferRequest represents the request body for a direct share transfer
type TransferRequest struct {
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Shares    string `json:"shares" binding:"required"`
}

// TransferFromRequest represents the request body for a delegated transfer
type TransferFromRequest struct {
	Spender   string `json:"spender" binding:"required"`
	Owner     string `json:"owner" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Shares    string `json:"shares" binding:"required"`
}

// ApproveRequest represents the request body for setting an allowance.
// Amount "max" grants the unlimited allowance.
type ApproveRequest struct {
	Owner   string `json:"owner" binding:"required"`
	Spender string `json:"spender" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// AllowanceChangeRequest represents the request body for relative allowance
// adjustments
type AllowanceChangeRequest struct {
	Owner   string `json:"owner" binding:"required"`
	Spender string `json:"spender" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// PermitRequest carries a signed off-chain approval. V accepts both the
// 0/1 and 27/28 encodings; R and S are 0x-prefixed 32-byte hex strings.
type PermitRequest struct {
	Holder  string `json:"holder" binding:"required"`
	Spender string `json:"spender" binding:"required"`
	Nonce   uint64 `json:"nonce"`
	Expiry  uint64 `json:"expiry"`
	Allowed bool   `json:"allowed"`
	V       uint8  `json:"v"`
	R       string `json:"r" binding:"required"`
	S       string `json:"s" binding:"required"`
}

// SetDepositLimitRequest represents the governance request to change the
// deposit limit. An omitted limit removes the cap; an omitted caller acts as
// the vault owner.
type SetDepositLimitRequest struct {
	Caller string `json:"caller,omitempty"`
	Limit  string `json:"limit,omitempty"`
}

// SetShutdownRequest represents the governance request to toggle emergency
// shutdown. An omitted caller acts as the vault owner.
type SetShutdownRequest struct {
	Caller string `json:"caller,omitempty"`
	Active bool   `json:"active"`
}
