package chat

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a chat session
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is one independent, titled thread of user/assistant turns
type Session struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Default titles used when sessions are created without one.
const (
	DefaultTitle = "محادثة جديدة"
	FirstTitle   = "أول محادثة"
)

// Welcome greets the user in a chat with no messages yet.
const Welcome = "مرحبًا بك — أنا رفيقك الصالح. كيف حال قلبك اليوم؟"

func (s Session) clone() Session {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	return out
}
