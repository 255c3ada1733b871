package services

import (
	"context"
	"time"

	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/vault"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

const archiveTimeout = 5 * time.Second

// EventArchiver persists ledger events through the store. It implements
// vault.EventRecorder. The ledger only reports events for operations that
// already succeeded, so persistence failures are logged and swallowed
// rather than surfaced.
type EventArchiver struct {
	queries      db.Querier
	vaultAddress string
	logger       *zap.Logger
}

// NewEventArchiver creates a new instance of EventArchiver for one vault.
func NewEventArchiver(queries db.Querier, vaultAddress common.Address) *EventArchiver {
	return &EventArchiver{
		queries:      queries,
		vaultAddress: vaultAddress.Hex(),
		logger:       logger.Log,
	}
}

// RecordTransfer archives a share transfer, mint or burn.
func (a *EventArchiver) RecordTransfer(e vault.TransferEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	_, err := a.queries.CreateVaultEvent(ctx, db.CreateVaultEventParams{
		Kind:         db.EventKindTransfer,
		VaultAddress: a.vaultAddress,
		FromAddress:  e.From.Hex(),
		ToAddress:    e.To.Hex(),
		Amount:       e.Shares.Dec(),
	})
	if err != nil {
		a.logger.Error("Failed to archive transfer event",
			zap.String("vault_address", a.vaultAddress),
			zap.String("from", e.From.Hex()),
			zap.String("to", e.To.Hex()),
			zap.Error(err),
		)
	}
}

// RecordApproval archives an allowance change.
func (a *EventArchiver) RecordApproval(e vault.ApprovalEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	_, err := a.queries.CreateVaultEvent(ctx, db.CreateVaultEventParams{
		Kind:         db.EventKindApproval,
		VaultAddress: a.vaultAddress,
		FromAddress:  e.Owner.Hex(),
		ToAddress:    e.Spender.Hex(),
		Amount:       e.Amount.Dec(),
	})
	if err != nil {
		a.logger.Error("Failed to archive approval event",
			zap.String("vault_address", a.vaultAddress),
			zap.String("owner", e.Owner.Hex()),
			zap.String("spender", e.Spender.Hex()),
			zap.Error(err),
		)
	}
}
