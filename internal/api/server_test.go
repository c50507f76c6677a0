package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mimic/internal/engine"
	"github.com/samcharles93/mimic/internal/tokenizer"
)

func newTestEcho(t *testing.T, cfg engine.Config) *echo.Echo {
	t.Helper()
	tok, err := tokenizer.NewMock(tokenizer.DefaultVocab())
	if err != nil {
		t.Fatalf("new tokenizer: %v", err)
	}
	server := NewServer(engine.New(tok, cfg), nil)
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEncodeDecodeRoundTripHTTP(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{Seed: 42})
	rec := doJSON(t, e, http.MethodPost, "/v1/encode", `{"text":"catdog"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var enc EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &enc); err != nil {
		t.Fatalf("decode encode response: %v", err)
	}
	if len(enc.TokenIDs) == 0 || enc.RequestID == "" {
		t.Fatalf("unexpected encode response: %+v", enc)
	}

	idsJSON, _ := json.Marshal(DecodeRequest{TokenIDs: enc.TokenIDs})
	rec = doJSON(t, e, http.MethodPost, "/v1/decode", string(idsJSON))
	if rec.Code != http.StatusOK {
		t.Fatalf("decode status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var dec DecodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dec); err != nil {
		t.Fatalf("decode decode response: %v", err)
	}
	if dec.Text != "catdog" {
		t.Fatalf("round trip: got %q want %q", dec.Text, "catdog")
	}
}

func TestLogitsForcedReportsNulls(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{
		Patterns: [][]byte{[]byte("cat")},
		Force:    true,
		Seed:     42,
	})
	rec := doJSON(t, e, http.MethodPost, "/v1/logits", `{"token_ids":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("logits status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp LogitsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode logits response: %v", err)
	}
	if resp.VocabSize != 1+25*25+256 || len(resp.Scores) != resp.VocabSize {
		t.Fatalf("vocab size: got %d scores=%d", resp.VocabSize, len(resp.Scores))
	}
	finite := 0
	for _, s := range resp.Scores {
		if s != nil {
			finite++
		}
	}
	// In forcing mode only the pattern's next tokens ("ca" and "c") carry
	// finite scores.
	if finite != 2 {
		t.Fatalf("finite scores: got %d want 2", finite)
	}
}

func TestTopKEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{Seed: 42})
	rec := doJSON(t, e, http.MethodPost, "/v1/topk", `{"token_ids":[0,1,2],"k":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("topk status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp TopKResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode topk response: %v", err)
	}
	if len(resp.Positions) != 3 {
		t.Fatalf("positions: got %d want 3", len(resp.Positions))
	}
	if resp.Positions[0].Prob != 1.0 {
		t.Fatalf("anchor prob: got %v want 1.0", resp.Positions[0].Prob)
	}
}

func TestGenerateEndpointForced(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{
		Patterns: [][]byte{[]byte("cat")},
		Force:    true,
		Seed:     42,
	})
	rec := doJSON(t, e, http.MethodPost, "/v1/generate", `{"prompt":"","steps":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	if resp.Text != "cat" {
		t.Fatalf("forced generation over HTTP: got %q want %q", resp.Text, "cat")
	}
}

func TestPrefixMassEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{
		Patterns: [][]byte{[]byte("cat")},
		Force:    true,
		Seed:     42,
	})
	rec := doJSON(t, e, http.MethodPost, "/v1/prefix_mass", `{"token_ids":[],"prefix":"c"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("prefix_mass status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp PrefixMassResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Found || resp.Mass < 0.99 {
		t.Fatalf("prefix mass: got found=%v mass=%v", resp.Found, resp.Mass)
	}
}

func TestBadRequestBodies(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{Seed: 42})
	for _, path := range []string{"/v1/encode", "/v1/decode", "/v1/logits", "/v1/topk", "/v1/generate"} {
		rec := doJSON(t, e, http.MethodPost, path, `{invalid`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d want 400", path, rec.Code)
		}
	}
}

func TestLogitsRejectsOutOfRangeIDs(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{Seed: 42})
	rec := doJSON(t, e, http.MethodPost, "/v1/logits", `{"token_ids":[99999]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range ids: got %d want 400", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, engine.Config{Seed: 42})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "mimic_") {
		t.Fatalf("expected mimic metrics in output")
	}
}
