package qtd

import "strings"

// KnowledgeBase identifies a documentation corpus the backend can answer
// questions about. The set is closed; the zero value means "not selected".
type KnowledgeBase string

// Known knowledge bases. Adding a corpus means extending this list and the
// backend's routing.
const (
	KnowledgeBasePinnacleDB KnowledgeBase = "pinnacledb"
	KnowledgeBaseLangChain  KnowledgeBase = "langchain"
	KnowledgeBaseFastChat   KnowledgeBase = "fastchat"
)

// KnowledgeBaseInfo pairs a knowledge base with its display label.
type KnowledgeBaseInfo struct {
	ID    KnowledgeBase `json:"id"`
	Label string        `json:"label"`
}

var knowledgeBases = []KnowledgeBaseInfo{
	{ID: KnowledgeBasePinnacleDB, Label: "SuperDuperDB"},
	{ID: KnowledgeBaseLangChain, Label: "LangChain"},
	{ID: KnowledgeBaseFastChat, Label: "FastChat"},
}

// KnowledgeBases returns the available knowledge bases in display order.
// The returned slice is a copy.
func KnowledgeBases() []KnowledgeBaseInfo {
	out := make([]KnowledgeBaseInfo, len(knowledgeBases))
	copy(out, knowledgeBases)
	return out
}

// Valid reports whether kb is one of the known knowledge bases.
func (kb KnowledgeBase) Valid() bool {
	for _, info := range knowledgeBases {
		if info.ID == kb {
			return true
		}
	}
	return false
}

// Label returns the display label for kb, or the identifier itself when kb is
// not a known knowledge base.
func (kb KnowledgeBase) Label() string {
	for _, info := range knowledgeBases {
		if info.ID == kb {
			return info.Label
		}
	}
	return string(kb)
}

// ParseKnowledgeBase converts an identifier into a KnowledgeBase.
// Matching is case-insensitive. Returns EINVALID for unknown identifiers.
func ParseKnowledgeBase(s string) (KnowledgeBase, error) {
	kb := KnowledgeBase(strings.ToLower(strings.TrimSpace(s)))
	if kb == "" {
		return "", Errorf(EINVALID, "knowledge base required")
	}
	if !kb.Valid() {
		return "", Errorf(EINVALID, "unknown knowledge base %q", s)
	}
	return kb, nil
}
