// Package masking decides what text a notification shows for a message.
package masking

import (
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/soyeahso/safetalk/internal/domain"
)

// Filler replaces masked characters.
const Filler = "*"

// MinMaskLength is the shortest mask ever produced, so short messages do
// not reveal their length.
const MinMaskLength = 10

// Mask replaces text with max(MinMaskLength, len(text)) filler characters.
// Length is counted in UTF-16 code units, so characters outside the BMP
// (most emoji) count twice, the same as a browser string length.
func Mask(text string) string {
	return strings.Repeat(Filler, max(MinMaskLength, MaskLength(text)))
}

// MaskLength returns the length Mask measures text by.
func MaskLength(text string) int {
	return len(utf16.Encode([]rune(text)))
}

// Policy masks hard-flagged catalog entries and confirmed hate.
type Policy struct {
	hardFlagged []int
}

// NewPolicy creates a Policy that always masks the given catalog indices.
func NewPolicy(hardFlagged ...int) Policy {
	return Policy{hardFlagged: slices.Clone(hardFlagged)}
}

// HardFlagged reports whether index is masked regardless of classification.
func (p Policy) HardFlagged(index int) bool {
	return slices.Contains(p.hardFlagged, index)
}

// Flagged reports whether the message counts as hate speech: hard-flagged,
// or classified as hate. A pending or failed result never flags.
func (p Policy) Flagged(index int, res domain.ClassificationResult) bool {
	return p.HardFlagged(index) || res.ConfirmedHate()
}

// DisplayText returns the text to show for msg at catalog position index.
func (p Policy) DisplayText(index int, msg domain.InboundMessage, res domain.ClassificationResult) string {
	raw := msg.RawText()
	if p.Flagged(index, res) {
		return Mask(raw)
	}
	return raw
}

// ShowSafe reports whether the "safe" check mark is shown.
func (p Policy) ShowSafe(index int, res domain.ClassificationResult) bool {
	return res.ConfirmedSafe() && !p.HardFlagged(index)
}
