package dto

// CoralInsight is the JSON document the vision model is asked to produce.
// The API relays the model text untouched; this type documents the expected
// shape for clients and is used only to check whether a reply is well formed.
type CoralInsight struct {
	Type      string          `json:"type"`
	Geography string          `json:"geography"`
	Factors   []InsightFactor `json:"factors"`
	Benefits  []InsightFactor `json:"benefits"`
}

// InsightFactor is a named entry in the factors or benefits lists. Models
// answer with either "type" or "aspect" for benefits.
type InsightFactor struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Aspect      string `json:"aspect,omitempty"`
	Description string `json:"description"`
}

// VisionResponse carries the model reply back to the caller.
type VisionResponse struct {
	Result string `json:"result"`
}
