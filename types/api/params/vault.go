package params

// ListVaultEventsParams narrows an event archive listing. Holder is optional;
// when set, only events the holder participated in are returned.
type ListVaultEventsParams struct {
	VaultAddress string
	Holder       string
	Limit        int32
	Offset       int32
}
