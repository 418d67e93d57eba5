// Package detector scores text for hate speech using an LLM verdict
// backed by a lexical blacklist.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/logging"
)

// Labels produced by the detector.
const (
	LabelHate        = "hate"
	LabelOffensive   = "offensive"
	LabelNeutral     = "neutral"
	LabelLexicalHate = "lexical_hate"
)

// DefaultBlacklist is matched on word boundaries, case-insensitively.
var DefaultBlacklist = []string{"hate", "stupid", "idiot", "black people", "kill", "trash"}

// Detector classifies text.
type Detector struct {
	client    llm.Client
	blacklist []*blacklistEntry
	log       *logging.Logger
}

type blacklistEntry struct {
	word string
	re   *regexp.Regexp
}

// New creates a Detector that asks client for a verdict.
// A nil blacklist uses DefaultBlacklist.
func New(client llm.Client, blacklist []string, log *logging.Logger) *Detector {
	if blacklist == nil {
		blacklist = DefaultBlacklist
	}
	d := &Detector{client: client, log: log.Sub("detector")}
	for _, w := range blacklist {
		d.blacklist = append(d.blacklist, &blacklistEntry{
			word: w,
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(w)) + `\b`),
		})
	}
	return d
}

// Detect returns the verdict for text. An error means the LLM could not be
// reached; an unparseable LLM reply is treated as neutral.
func (d *Detector) Detect(ctx context.Context, text string) (domain.Detection, error) {
	resp, err := d.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(text)}},
	})
	if err != nil {
		return domain.Detection{}, fmt.Errorf("detect: %w", err)
	}

	v := parseVerdict(resp.Content)
	det := domain.Detection{
		IsHate:        v.isHate,
		ToxicityScore: v.score,
		Label:         v.label,
		ToxicWords:    d.ToxicWords(text),
		Explanation:   v.explanation,
	}

	if !det.IsHate && len(det.ToxicWords) > 0 {
		det.IsHate = true
		det.Label = LabelLexicalHate
		det.ToxicityScore = math.Max(det.ToxicityScore, 0.5)
		if det.Explanation == "" {
			det.Explanation = "Contains potentially harmful words: " + strings.Join(det.ToxicWords, ", ")
		}
	}
	det.ToxicityScore = math.Round(det.ToxicityScore*100) / 100

	d.log.Debug().
		Bool("isHate", det.IsHate).
		Str("label", det.Label).
		Float64("score", det.ToxicityScore).
		Strs("toxicWords", det.ToxicWords).
		Msg("detection complete")
	return det, nil
}

// ToxicWords returns the blacklist entries present in text, in blacklist order.
func (d *Detector) ToxicWords(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, e := range d.blacklist {
		if e.re.MatchString(lower) {
			found = append(found, e.word)
		}
	}
	return found
}

// BuildPrompt returns the classification instruction for text.
func BuildPrompt(text string) string {
	return "Classify the user text for hate speech. " +
		"Return ONLY valid JSON with these exact keys: " +
		"label (hate|offensive|neutral), " +
		"toxicity_score (0-1), is_hate (true|false), " +
		"explanation (brief reason in 1 sentence, or empty string if neutral).\n" +
		"Text: " + text
}

type verdict struct {
	label       string
	score       float64
	isHate      bool
	explanation string
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// parseVerdict reads the LLM reply as JSON, then as the first {...} span,
// and falls back to a neutral verdict.
func parseVerdict(reply string) verdict {
	raw, ok := decodeObject(reply)
	if !ok {
		if m := jsonObject.FindString(reply); m != "" {
			raw, ok = decodeObject(m)
		}
	}
	v := verdict{label: LabelNeutral}
	if !ok {
		return v
	}

	if s, ok := raw["label"].(string); ok && s != "" {
		v.label = s
	}
	v.score = toFloat(raw["toxicity_score"])
	v.isHate = strings.EqualFold(toString(raw["is_hate"]), "true")
	if s, ok := raw["explanation"].(string); ok {
		v.explanation = s
	}
	return v
}

func decodeObject(s string) (map[string]any, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &raw); err != nil {
		return nil, false
	}
	return raw, raw != nil
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil {
			return f
		}
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "false"
	default:
		return fmt.Sprint(x)
	}
}
