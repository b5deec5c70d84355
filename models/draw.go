package models

// DrawRequest asks the engine to award one unit of a prize
type DrawRequest struct {
	EventID   int64
	PrizeID   int64
	Initiator string
}

// DrawResult is the outcome of a successful draw
type DrawResult struct {
	Winner         WinnerView `json:"winner"`
	PrizeRemaining int        `json:"prizeRemaining"`
	DrawRunID      int64      `json:"drawRunId"`
	Attempts       int        `json:"attempts"`
}

// DrawHistory lists the winners of an event along with the prize currently on deck
type DrawHistory struct {
	Winners           []*WinnerView `json:"winners"`
	SelectedPrizeID   *int64        `json:"selectedPrizeId"`
	SelectedPrizeName *string       `json:"selectedPrizeName"`
}

// DrawState is a step of the draw engine's per-attempt state machine
type DrawState string

const (
	DrawStateValidating DrawState = "validating"
	DrawStateSelecting  DrawState = "selecting"
	DrawStateCommitting DrawState = "committing"
	DrawStateSucceeded  DrawState = "succeeded"
	DrawStateRetrying   DrawState = "retrying"
	DrawStateFailed     DrawState = "failed"
)
