package tokenizer

import (
	"fmt"

	"github.com/samcharles93/mimic/internal/trie"
)

// ErrParseSpecial is returned by EncodeBytes when the caller asks for
// parseSpecial=false. The mock tokenizer always parses special tokens and
// deliberately narrows the real contract to that single mode.
var ErrParseSpecial = fmt.Errorf("tokenizer: parse_special=false is not supported")

// NoMatchError reports a byte offset where greedy matching could not extend.
// With a vocabulary that covers all 256 single bytes this is unreachable, so
// hitting it means the token table is malformed.
type NoMatchError struct {
	Pos  int
	Byte byte
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("tokenizer: no token matches byte 0x%02x at position %d", e.Byte, e.Pos)
}

// MockTokenizer encodes arbitrary byte strings against a fixed, ordered token
// table using greedy longest-match over a byte trie. The table index is the
// token id; id 0 serves as both the beginning- and end-of-sequence token.
// The table and trie are built once and never mutated afterwards.
type MockTokenizer struct {
	tokens [][]byte
	trie   *trie.Trie
	bosID  int
	eosID  int
}

// NewMock builds a tokenizer from the given token table.
func NewMock(tokens [][]byte) (*MockTokenizer, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty token list")
	}
	copied := make([][]byte, len(tokens))
	for i, s := range tokens {
		copied[i] = append([]byte(nil), s...)
	}
	return &MockTokenizer{
		tokens: copied,
		trie:   trie.FromTokens(copied),
		bosID:  0,
		eosID:  0,
	}, nil
}

// EncodeBytes tokenizes a byte string by greedy longest match: from each
// position it walks the trie as far as the input allows, emits the longest
// terminal node seen, and resumes after it.
func (t *MockTokenizer) EncodeBytes(s []byte, parseSpecial bool) ([]int, error) {
	if !parseSpecial {
		return nil, ErrParseSpecial
	}
	var ids []int
	pos := 0
	for pos < len(s) {
		n := t.trie.Root()
		lastID := -1
		lastEnd := pos
		for i := pos; i < len(s) && t.trie.HasChild(n, s[i]); i++ {
			n, _ = t.trie.Child(n, s[i])
			if id, ok := t.trie.Token(n); ok {
				lastID = id
				lastEnd = i + 1
			}
		}
		if lastID < 0 {
			return nil, &NoMatchError{Pos: pos, Byte: s[pos]}
		}
		ids = append(ids, lastID)
		pos = lastEnd
	}
	return ids, nil
}

// DecodeBytes concatenates the vocabulary bytes of each id.
func (t *MockTokenizer) DecodeBytes(ids []int) ([]byte, error) {
	var b []byte
	for _, id := range ids {
		if id < 0 || id >= len(t.tokens) {
			return nil, fmt.Errorf("token id out of range: %d", id)
		}
		b = append(b, t.tokens[id]...)
	}
	return b, nil
}

// Recode is an intentional identity pass. A real tokenizer may re-tokenize
// detokenized text here; this test double does not need to.
func (t *MockTokenizer) Recode(ids []int) []int {
	return append([]int(nil), ids...)
}

// Encode implements Tokenizer for the string-facing CLI/API layer.
func (t *MockTokenizer) Encode(text string) ([]int, error) {
	return t.EncodeBytes([]byte(text), true)
}

// Decode implements Tokenizer for the string-facing CLI/API layer.
func (t *MockTokenizer) Decode(ids []int) (string, error) {
	b, err := t.DecodeBytes(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Len returns the vocabulary size.
func (t *MockTokenizer) Len() int { return len(t.tokens) }

// TokenBytes returns the vocabulary bytes for one id.
func (t *MockTokenizer) TokenBytes(id int) ([]byte, bool) {
	if id < 0 || id >= len(t.tokens) {
		return nil, false
	}
	return t.tokens[id], true
}

// Tokens returns the full token table. Callers must not mutate it.
func (t *MockTokenizer) Tokens() [][]byte { return t.tokens }

// Trie exposes the underlying byte trie for probability aggregation queries.
func (t *MockTokenizer) Trie() *trie.Trie { return t.trie }

func (t *MockTokenizer) BOSID() int { return t.bosID }
func (t *MockTokenizer) EOSID() int { return t.eosID }
