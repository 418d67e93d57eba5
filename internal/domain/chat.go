package domain

// Role constants for avatar chat entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatEntry is one turn of the avatar chat transcript.
type ChatEntry struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CommunityExperience is a story shared on the community surface.
type CommunityExperience struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Text      string `json:"text"`
}
