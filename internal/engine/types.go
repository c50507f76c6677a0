package engine

import "time"

// Token is one vocabulary entry with its assessed probability and decoded
// text form, as reported across the engine boundary.
type Token struct {
	ID   int     `json:"token_id"`
	Prob float64 `json:"prob"`
	Text string  `json:"text"`
}

// TokenScores is the per-position record produced by PerTokenTopK: the token
// actually present at the position plus its top-k alternatives. The TopK list
// always contains the actual token, so its length may be k+1.
type TokenScores struct {
	Token
	TopK []Token `json:"top_k"`
}

// Output is the result of one decoding step: the chosen token and the top-k
// alternatives considered alongside it.
type Output struct {
	Token Token   `json:"token"`
	TopK  []Token `json:"top_k"`
}

// Stats summarizes a generation run.
type Stats struct {
	TokensGenerated int
	Duration        time.Duration
	TPS             float64
}
