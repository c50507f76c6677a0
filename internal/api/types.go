package api

import "github.com/samcharles93/mimic/internal/engine"

type EncodeRequest struct {
	Text string `json:"text"`
}

type EncodeResponse struct {
	RequestID string   `json:"request_id"`
	TokenIDs  []int    `json:"token_ids"`
	Tokens    []string `json:"tokens"`
}

type DecodeRequest struct {
	TokenIDs []int `json:"token_ids"`
}

type DecodeResponse struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

type LogitsRequest struct {
	TokenIDs []int `json:"token_ids"`
}

// LogitsResponse carries one score per vocabulary entry. Non-finite scores
// (blocked tokens in forcing mode) are reported as null, since JSON has no
// encoding for infinities.
type LogitsResponse struct {
	RequestID string     `json:"request_id"`
	VocabSize int        `json:"vocab_size"`
	Scores    []*float64 `json:"scores"`
}

type TopKRequest struct {
	TokenIDs []int `json:"token_ids"`
	K        int   `json:"k"`
}

type TopKResponse struct {
	RequestID string               `json:"request_id"`
	Positions []engine.TokenScores `json:"positions"`
}

type GenerateRequest struct {
	Prompt      string   `json:"prompt"`
	Steps       *int     `json:"steps,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type GenerateResponse struct {
	RequestID       string  `json:"request_id"`
	TokenIDs        []int   `json:"token_ids"`
	Text            string  `json:"text"`
	TokensGenerated int     `json:"tokens_generated"`
	DurationMS      float64 `json:"duration_ms"`
	TPS             float64 `json:"tps"`
}

type PrefixMassRequest struct {
	TokenIDs []int  `json:"token_ids"`
	Prefix   string `json:"prefix"`
}

type PrefixMassResponse struct {
	RequestID string  `json:"request_id"`
	Mass      float64 `json:"mass"`
	Found     bool    `json:"found"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
