package constants

// Vault operation names, shared between the service layer and its logs.
const (
	OpDeposit           = "deposit"
	OpWithdraw          = "withdraw"
	OpTransfer          = "transfer"
	OpTransferFrom      = "transfer_from"
	OpApprove           = "approve"
	OpIncreaseAllowance = "increase_allowance"
	OpDecreaseAllowance = "decrease_allowance"
	OpPermit            = "permit"
	OpSetDepositLimit   = "set_deposit_limit"
	OpSetShutdown       = "set_emergency_shutdown"
)
