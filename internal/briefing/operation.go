package briefing

import "newsbrief/internal/news"

// OperationID is the stable identifier the paid-invocation collaborator
// keys this entrypoint by.
const OperationID = "news-briefing"

// Operation describes the single paid entrypoint: what it accepts, what it
// returns, and the price signal. The price is opaque here; settlement
// belongs to the payment collaborator.
type Operation struct {
	ID     string          `json:"id"`
	Price  string          `json:"price"`
	Input  InputSchema     `json:"input"`
	Output ResponseExample `json:"output"`
}

type InputSchema struct {
	Limit string `json:"limit"`
}

type ResponseExample struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Sources    string   `json:"sources"`
}

// Response is the success payload of one briefing invocation. Generated
// reports whether the AI path or the deterministic fallback produced it.
type Response struct {
	Summary    string      `json:"summary"`
	Highlights []string    `json:"highlights"`
	Sources    []news.Item `json:"sources"`
	Generated  bool        `json:"generated"`
}

// Describe returns the operation descriptor advertised to the collaborator.
func (h *Handler) Describe() Operation {
	return Operation{
		ID:    OperationID,
		Price: h.Price,
		Input: InputSchema{
			Limit: "optional integer, 1-10, default 5",
		},
		Output: ResponseExample{
			Summary:    "two-sentence briefing",
			Highlights: []string{"up to five highlights"},
			Sources:    "normalized news items",
		},
	}
}
