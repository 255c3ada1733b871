package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TransferEvent mirrors the ERC-20 Transfer log. Mints carry the zero address
// as From, burns carry it as To.
type TransferEvent struct {
	From   common.Address
	To     common.Address
	Shares *uint256.Int
}

// ApprovalEvent records an allowance being set to Amount.
type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Amount  *uint256.Int
}

// EventRecorder receives events for operations that completed. Failed
// operations record nothing. Implementations must not call back into the
// vault.
type EventRecorder interface {
	RecordTransfer(TransferEvent)
	RecordApproval(ApprovalEvent)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) RecordTransfer(TransferEvent) {}

func (NopRecorder) RecordApproval(ApprovalEvent) {}

// MemoryRecorder retains events in emission order.
type MemoryRecorder struct {
	Transfers []TransferEvent
	Approvals []ApprovalEvent
}

func (m *MemoryRecorder) RecordTransfer(e TransferEvent) {
	m.Transfers = append(m.Transfers, e)
}

func (m *MemoryRecorder) RecordApproval(e ApprovalEvent) {
	m.Approvals = append(m.Approvals, e)
}
