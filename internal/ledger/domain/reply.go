package ledger

// Reply is an outbound message addressed to the channel the triggering
// command came from.
type Reply struct {
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}
