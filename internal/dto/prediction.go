package dto

// StockPredictionInput is one instrument's submission at creation time.
type StockPredictionInput struct {
	PreviousClose   *float64 `json:"previous_close" validate:"required,gt=0"`
	PredictedChange *float64 `json:"predicted_change" validate:"required"`
}

// CreatePredictionRequest submits today's calls. At least one instrument
// is required; nil entries are treated as absent.
type CreatePredictionRequest struct {
	Predictions map[Instrument]*StockPredictionInput `json:"predictions" validate:"required,min=1"`
}

// ConfirmPredictionRequest attaches realized changes for one or more
// instruments, typically sourced from a live quote.
type ConfirmPredictionRequest struct {
	Actuals map[Instrument]float64 `json:"actuals" validate:"required,min=1"`
}

// StockEditInput is a partial overwrite of one instrument's slot. Absent
// fields stay untouched. ClearActual reverts the realized change, moving
// a confirmed record back to pending.
type StockEditInput struct {
	PredictedChange *float64 `json:"predicted_change"`
	ActualChange    *float64 `json:"actual_change"`
	ClearActual     bool     `json:"clear_actual"`
}

type EditPredictionRequest struct {
	Edits map[Instrument]*StockEditInput `json:"edits" validate:"required,min=1"`
}

type SaveCommentRequest struct {
	Comment string `json:"comment"`
}
