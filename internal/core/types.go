package core

import "encoding/json"

const (
	SwarmName    = "TuskSwarm"
	SwarmVersion = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Agent names double as transcript senders and CLI style keys.
const (
	AgentCoordinator = "Coordinator"
	AgentSQL         = "SQL Agent"
	AgentRAG         = "RAG Agent"
)

type Function struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema
}

type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is one transcript entry. Sender names the agent for assistant messages.
type Message struct {
	Role       string     `json:"role"`
	Sender     string     `json:"sender,omitempty"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AgentMessage(sender, content string) Message {
	return Message{Role: RoleAssistant, Sender: sender, Content: content}
}

// LastUserContent returns the newest user message in the transcript, if any.
func LastUserContent(msgs []Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content, true
		}
	}
	return "", false
}

type Document struct {
	ID      string
	Source  string
	Content string
	Meta    map[string]string
}

type Chunk struct {
	ID        string
	Source    string
	Index     int
	Content   string
	TokenSize int
}

// Passage is a chunk returned by similarity search.
type Passage struct {
	Source     string
	Index      int
	Content    string
	Similarity float32
}

type Domain string

const (
	DomainDocuments Domain = "documents"
	DomainSQL       Domain = "sql"
	DomainUnknown   Domain = "unknown"
)

type ResultKind int

const (
	ResultAnswer ResultKind = iota
	ResultTransfer
)

// Result is the outcome of one agent step: either a final answer or a hand-off.
type Result struct {
	Kind   ResultKind
	Answer string
	Next   string
}

func Answer(text string) Result {
	return Result{Kind: ResultAnswer, Answer: text}
}

func Transfer(agent string) Result {
	return Result{Kind: ResultTransfer, Next: agent}
}
