package domain

// ClassificationStatus is the lifecycle of a single classification request.
type ClassificationStatus string

const (
	StatusPending ClassificationStatus = "pending"
	StatusDone    ClassificationStatus = "done"
	StatusFailed  ClassificationStatus = "failed"
)

// DetectionUnavailable is the explanation attached to a failed classification.
const DetectionUnavailable = "Detection unavailable"

// ClassificationResult is the verdict for exactly one InboundMessage.
// IsHate and Explanation are meaningful only when Status is StatusDone
// (Explanation also carries the fallback text when StatusFailed).
type ClassificationResult struct {
	MessageID   string               `json:"messageId"`
	Status      ClassificationStatus `json:"status"`
	IsHate      bool                 `json:"isHate"`
	Explanation string               `json:"explanation,omitempty"`
}

// Pending returns a fresh pending result for the given message.
func Pending(messageID string) ClassificationResult {
	return ClassificationResult{MessageID: messageID, Status: StatusPending}
}

// Failed returns the downgraded result used when the classifier is unreachable.
func Failed(messageID string) ClassificationResult {
	return ClassificationResult{MessageID: messageID, Status: StatusFailed, Explanation: DetectionUnavailable}
}

// ConfirmedHate reports whether the classifier finished and flagged the text.
func (r ClassificationResult) ConfirmedHate() bool {
	return r.Status == StatusDone && r.IsHate
}

// ConfirmedSafe reports whether the classifier finished and cleared the text.
func (r ClassificationResult) ConfirmedSafe() bool {
	return r.Status == StatusDone && !r.IsHate
}

// Detection is the wire shape of a /detect-hate response.
type Detection struct {
	IsHate        bool     `json:"is_hate"`
	ToxicityScore float64  `json:"toxicity_score"`
	Label         string   `json:"label"`
	ToxicWords    []string `json:"toxic_words"`
	Explanation   string   `json:"explanation"`
}
