package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/soyeahso/safetalk/internal/llm"
	"github.com/soyeahso/safetalk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replying(content string) *llm.MockClient {
	return &llm.MockClient{
		ProviderName: "mock",
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return &llm.CompletionResponse{Content: content}, nil
		},
	}
}

func TestDetect_LLMVerdict(t *testing.T) {
	var prompt string
	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			prompt = req.Messages[0].Content
			return &llm.CompletionResponse{Content: `{"label":"hate","toxicity_score":0.876,"is_hate":true,"explanation":"Insulting."}`}, nil
		},
	}
	d := New(client, nil, logging.Nop())

	det, err := d.Detect(context.Background(), "you are awful")
	require.NoError(t, err)

	assert.True(t, det.IsHate)
	assert.Equal(t, LabelHate, det.Label)
	assert.Equal(t, 0.88, det.ToxicityScore)
	assert.Equal(t, "Insulting.", det.Explanation)
	assert.Empty(t, det.ToxicWords)
	assert.NotNil(t, det.ToxicWords)
	assert.Contains(t, prompt, "Text: you are awful")
}

func TestDetect_LexicalOverride(t *testing.T) {
	d := New(replying(`{"label":"neutral","toxicity_score":0.1,"is_hate":false,"explanation":""}`), nil, logging.Nop())

	det, err := d.Detect(context.Background(), "I hate you, you are stupid")
	require.NoError(t, err)

	assert.True(t, det.IsHate)
	assert.Equal(t, LabelLexicalHate, det.Label)
	assert.Equal(t, 0.5, det.ToxicityScore)
	assert.Equal(t, []string{"hate", "stupid"}, det.ToxicWords)
	assert.Equal(t, "Contains potentially harmful words: hate, stupid", det.Explanation)
}

func TestDetect_LexicalKeepsExplanationAndHigherScore(t *testing.T) {
	d := New(replying(`{"label":"offensive","toxicity_score":0.7,"is_hate":false,"explanation":"Rude."}`), nil, logging.Nop())

	det, err := d.Detect(context.Background(), "that is trash")
	require.NoError(t, err)

	assert.True(t, det.IsHate)
	assert.Equal(t, LabelLexicalHate, det.Label)
	assert.Equal(t, 0.7, det.ToxicityScore)
	assert.Equal(t, "Rude.", det.Explanation)
}

func TestDetect_LLMHateNotRelabelled(t *testing.T) {
	d := New(replying(`{"label":"hate","toxicity_score":0.9,"is_hate":"True","explanation":"x"}`), nil, logging.Nop())

	det, err := d.Detect(context.Background(), "kill")
	require.NoError(t, err)
	assert.True(t, det.IsHate)
	assert.Equal(t, LabelHate, det.Label)
	assert.Equal(t, []string{"kill"}, det.ToxicWords)
}

func TestDetect_EmbeddedJSON(t *testing.T) {
	d := New(replying("Sure! Here you go:\n```json\n{\"label\": \"offensive\", \"toxicity_score\": \"0.4\", \"is_hate\": false}\n```"), nil, logging.Nop())

	det, err := d.Detect(context.Background(), "meh")
	require.NoError(t, err)
	assert.False(t, det.IsHate)
	assert.Equal(t, LabelOffensive, det.Label)
	assert.Equal(t, 0.4, det.ToxicityScore)
}

func TestDetect_UnparseableIsNeutral(t *testing.T) {
	d := New(replying("I cannot help with that."), nil, logging.Nop())

	det, err := d.Detect(context.Background(), "sup twin wanna hang out?")
	require.NoError(t, err)
	assert.False(t, det.IsHate)
	assert.Equal(t, LabelNeutral, det.Label)
	assert.Zero(t, det.ToxicityScore)
	assert.Empty(t, det.Explanation)
}

func TestDetect_ClientError(t *testing.T) {
	client := &llm.MockClient{
		CompleteFunc: func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
			return nil, &llm.ProviderError{Provider: "openrouter", Code: 503, Message: "down"}
		},
	}
	d := New(client, nil, logging.Nop())

	_, err := d.Detect(context.Background(), "hello")
	require.Error(t, err)
	var provErr *llm.ProviderError
	assert.True(t, errors.As(err, &provErr))
}

func TestToxicWords(t *testing.T) {
	d := New(nil, nil, logging.Nop())

	tests := []struct {
		text string
		want []string
	}{
		{"I HATE this", []string{"hate"}},
		{"hateful words", []string{}},
		{"what an idiot, total trash", []string{"idiot", "trash"}},
		{"Black People deserve respect", []string{"black people"}},
		{"skill issue", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, d.ToxicWords(tt.text))
		})
	}
}

func TestCustomBlacklist(t *testing.T) {
	d := New(nil, []string{"c++"}, logging.Nop())
	assert.Equal(t, []string{}, d.ToxicWords("i love go"))
}

func TestParseVerdict(t *testing.T) {
	v := parseVerdict(`{"is_hate": "false", "toxicity_score": 1}`)
	assert.False(t, v.isHate)
	assert.Equal(t, LabelNeutral, v.label)
	assert.Equal(t, 1.0, v.score)

	v = parseVerdict(`null`)
	assert.Equal(t, LabelNeutral, v.label)
}
