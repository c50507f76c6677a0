package tokenizer

// DefaultVocab returns the synthetic vocabulary used by the mock backend:
// the <s> marker at id 0, every lowercase letter pair aa..yy, then every
// single byte 0-255. The single-byte entries guarantee greedy encoding can
// always extend a match, so Encode never fails on this vocabulary.
func DefaultVocab() [][]byte {
	tokens := make([][]byte, 0, 1+25*25+256)
	tokens = append(tokens, []byte("<s>"))
	for a := byte('a'); a < 'z'; a++ {
		for b := byte('a'); b < 'z'; b++ {
			tokens = append(tokens, []byte{a, b})
		}
	}
	for i := 0; i < 256; i++ {
		tokens = append(tokens, []byte{byte(i)})
	}
	return tokens
}
