package model

import "time"

// DailyTrade is one row of the daily_trades bookkeeping table.
type DailyTrade struct {
	Index        int64
	Asset        string
	Exchange     string
	TimeStart    time.Time
	TimeEnd      time.Time
	TradesCount  int64
	VolumeTraded float64
	PriceOpen    float64
	PriceHigh    float64
	PriceLow     float64
	PriceClose   float64
}

// Dataset is the output of one collection run.
type Dataset struct {
	Table      CompositeTable
	Chronology RecessionChronology
	BuiltAt    time.Time
}
