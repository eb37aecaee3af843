package notify

type Type string

const (
	TypeCredentialShow Type = "credential.show"
	TypeSessionReset   Type = "session.reset"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CredentialPayload accompanies TypeCredentialShow.
type CredentialPayload struct {
	Masked string `json:"masked"`
	Source string `json:"source"`
}

// Bus is a best-effort fan-out channel. Publish never blocks and never fails;
// a subscriber that cannot keep up misses events.
type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
