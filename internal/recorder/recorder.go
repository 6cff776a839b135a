package recorder

import "MacroSentinel/internal/model"

// Recorder persists price/trade ticks into the bookkeeping table.
// Nothing in the dataset build writes to it yet; opening a Recorder only
// guarantees the schema exists.
type Recorder interface {
	RecordDailyTrade(trade *model.DailyTrade) error
	Close() error
}
