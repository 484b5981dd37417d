package domain

// FileModificationProposal describes a file creation or edit awaiting
// confirmation. The server never stores it; the client re-submits it to apply.
type FileModificationProposal struct {
	Filename        string  `json:"filename"`
	Content         string  `json:"content"`
	IsNewFile       bool    `json:"is_new_file"`
	PreviousContent *string `json:"previous_content,omitempty"`
	Explanation     string  `json:"explanation,omitempty"`
	Changes         string  `json:"changes,omitempty"`
}

// ApplyResult reports the outcome of an apply call.
type ApplyResult struct {
	Message         string `json:"message"`
	Filename        string `json:"filename,omitempty"`
	DatabaseUpdated bool   `json:"database_updated"`
	Content         string `json:"content,omitempty"`
	Cancelled       bool   `json:"-"`
}

// ChatResponse is the generated answer for one message.
type ChatResponse struct {
	Text     string                    `json:"text"`
	FileData *FileModificationProposal `json:"file_data,omitempty"`
}

// ChatReply is what the orchestrator returns to the caller.
type ChatReply struct {
	Response  ChatResponse `json:"response"`
	QueryType QueryIntent  `json:"query_type"`
}
