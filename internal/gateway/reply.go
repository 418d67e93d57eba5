package gateway

import (
	"regexp"
	"strings"
)

// DefaultAvatarSystemPrompt is prepended to avatar chats that carry no
// system message.
const DefaultAvatarSystemPrompt = "You are a kind, supportive friend in the Safe-Talk app. Chat simply about hate speech and criticism awareness.\n\n" +
	"Output ONLY your direct reply. No think tags, no reasoning, no <think> or think>. Just 2-3 short, warm sentences. Reply with empathy. " +
	"Example: \"I'm doing well, thanks! How are you? I'm here if you need to talk.\" "

// StripThink removes reasoning blocks some models emit before their answer:
// whole <think>...</think> blocks, dangling "think>" runs up to the next
// blank line or <think>, and leftover lines starting with "think>". The
// remaining lines are joined with single spaces.
func StripThink(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = removeDangling(text)

	var kept []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(strings.ToLower(ln), "think>") {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

var (
	thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkTag   = regexp.MustCompile(`(?i)think>`)
	thinkOpen  = regexp.MustCompile(`(?i)<think>`)
)

func removeDangling(text string) string {
	from := 0
	for {
		loc := thinkTag.FindStringIndex(text[from:])
		if loc == nil {
			return text
		}
		start, after := from+loc[0], from+loc[1]
		rest := text[after:]
		end := len(rest)
		if j := strings.Index(rest, "\n\n"); j >= 0 && j < end {
			end = j
		}
		if m := thinkOpen.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
		text = text[:start] + text[after+end:]
		from = start
	}
}

// TruncateReply keeps at most max characters. When cutting, it ends at the
// last full stop if that stop lies past the halfway mark.
func TruncateReply(text string, max int) string {
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return strings.TrimSpace(text)
	}
	chunk := r[:max]
	last := -1
	for i := len(chunk) - 1; i >= 0; i-- {
		if chunk[i] == '.' {
			last = i
			break
		}
	}
	if last > max/2 {
		return strings.TrimSpace(string(chunk[:last+1]))
	}
	return strings.TrimSpace(string(chunk))
}
