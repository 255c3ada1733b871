package services

import (
	"context"
	"fmt"

	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/types/api/params"
	"github.com/cyphera/vault-ledger/types/api/responses"
	"go.uber.org/zap"
)

// EventService reads the archived ledger events.
type EventService struct {
	queries db.Querier
	logger  *zap.Logger
}

// NewEventService creates a new instance of EventService.
func NewEventService(queries db.Querier) *EventService {
	return &EventService{
		queries: queries,
		logger:  logger.Log,
	}
}

// ListEvents returns a page of archived events, newest first.
func (s *EventService) ListEvents(ctx context.Context, listParams params.ListVaultEventsParams) (*responses.ListVaultEventsResponse, error) {
	var (
		rows []db.VaultEvent
		err  error
	)
	if listParams.Holder != "" {
		rows, err = s.queries.ListVaultEventsForHolder(ctx, db.ListVaultEventsForHolderParams{
			VaultAddress: listParams.VaultAddress,
			Holder:       listParams.Holder,
			Limit:        listParams.Limit,
			Offset:       listParams.Offset,
		})
	} else {
		rows, err = s.queries.ListVaultEvents(ctx, db.ListVaultEventsParams{
			VaultAddress: listParams.VaultAddress,
			Limit:        listParams.Limit,
			Offset:       listParams.Offset,
		})
	}
	if err != nil {
		s.logger.Error("Failed to list vault events",
			zap.String("vault_address", listParams.VaultAddress),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list vault events: %w", err)
	}

	total, err := s.queries.CountVaultEvents(ctx, listParams.VaultAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to count vault events: %w", err)
	}

	data := make([]responses.VaultEventResponse, 0, len(rows))
	for _, row := range rows {
		data = append(data, toVaultEventResponse(row))
	}

	hasMore := int64(listParams.Offset)+int64(len(data)) < total
	if listParams.Holder != "" {
		// Total counts the whole archive, not the holder slice
		hasMore = int32(len(data)) == listParams.Limit
	}

	return &responses.ListVaultEventsResponse{
		Object:  "list",
		Data:    data,
		HasMore: hasMore,
		Total:   total,
	}, nil
}

func toVaultEventResponse(row db.VaultEvent) responses.VaultEventResponse {
	resp := responses.VaultEventResponse{
		ID:           row.ID.String(),
		Object:       "vault_event",
		Kind:         string(row.Kind),
		VaultAddress: row.VaultAddress,
		FromAddress:  row.FromAddress,
		ToAddress:    row.ToAddress,
		Amount:       row.Amount,
	}
	if row.CreatedAt.Valid {
		resp.CreatedAt = row.CreatedAt.Time.Unix()
	}
	return resp
}
