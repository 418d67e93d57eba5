package community

import "github.com/soyeahso/safetalk/internal/domain"

// defaults are shown until someone shares a story.
var defaults = []domain.CommunityExperience{
	{
		ID:        "1",
		Timestamp: "23:15, 2/6/2026",
		Name:      "anonymous: mangoooo67",
		Text:      "I have personally experienced hate speech, and it has been one of the most painful things I have gone through. Words can hurt deeply, even when people say them casually or online. At times, the hateful comments made me feel small, insecure, and misunderstood. I started to doubt myself and question my worth because of what others were saying.\n\nThere were moments when I felt alone and overwhelmed, as if the negativity was louder than my own voice. Hate speech did not just affect my mood — it affected my confidence, my motivation, and the way I saw myself. It was difficult to stay positive when I kept hearing messages that made me feel rejected or judged.\n\nHowever, using this application helped change the way I dealt with hate speech. It gave me a safe space to express my feelings, reflect on my experiences, and find supportive and positive perspectives. Through this app, I learned that hateful words do not define who I am. I began to rebuild my confidence and focus on my strengths instead of the negativity.\n\nToday, I still remember the pain of those experiences, but they no longer control me. This application helped me transform hurt into strength and reminded me that my voice, my identity, and my value matter. Instead of letting hate speech silence me, I now use my experience to grow, heal, and move forward with more confidence and self-respect.",
	},
	{
		ID:        "2",
		Timestamp: "23:50, 2/6/2026",
		Name:      "nonymous: spongebob big guy",
		Text:      "I have experienced hate speech, and it hurt me deeply, making me feel insecure and doubting my worth. At first, it was overwhelming, and the negativity seemed louder than my own voice.\n\nUsing this application changed that. It gave me a safe space to express my feelings and helped me realize that hateful words don't define me. I regained my confidence and learned to focus on my strengths instead of the negativity. Now, I can move forward with more self-respect and resilience.",
	},
	{
		ID:        "3",
		Timestamp: "23:56, 2/6/2026",
		Name:      "nonymous: crunchy crocodile",
		Text:      "A friend of mine once faced severe online harassment after sharing her artwork on social media. People sent hurtful messages criticizing her skills, her appearance, and even her personality. At first, she felt overwhelmed, anxious, and even scared to post anything online again. She started doubting herself and wondered if expressing herself publicly was worth the pain.\n\nOver time, she found support through online communities and mental health resources that helped her cope. She also began using moderation tools to filter out abusive comments and focus on constructive feedback. This support system helped her regain confidence and continue sharing her art without letting the harassment control her life. She learned that while some people may try to bring you down online, there are ways to protect yourself and find people who uplift you.",
	},
}

// Defaults returns a copy of the seeded stories.
func Defaults() []domain.CommunityExperience {
	return append([]domain.CommunityExperience(nil), defaults...)
}
