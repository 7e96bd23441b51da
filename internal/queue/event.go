package queue

// PickRecordedQueue is the durable queue carrying PickRecordedEvent.
const PickRecordedQueue = "pick.recorded"

// PickRecordedEvent is published after a pick record is stored. It carries
// enough of the record for downstream consumers to log or tally pay
// without querying the primary database. Amounts are decimal strings.
type PickRecordedEvent struct {
	PickRecordID   string `json:"pick_record_id"`
	PickerID       string `json:"picker_id"`
	OrchardBlockID string `json:"orchard_block_id"`
	AppleVariety   string `json:"apple_variety"`
	BinsPicked     int    `json:"bins_picked"`
	BinRate        string `json:"bin_rate"`
	TotalAmount    string `json:"total_amount"`
	HoursWorked    string `json:"hours_worked,omitempty"`
	PickDate       string `json:"pick_date"`
	RecordedAt     string `json:"recorded_at"`
}
