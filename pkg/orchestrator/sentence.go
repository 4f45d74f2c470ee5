package orchestrator

import "strings"

// MaxSentenceChars bounds how long the splitter will accumulate text
// before forcing a sentence boundary, so a response with no punctuation
// still starts reaching TTS promptly.
const MaxSentenceChars = 220

var sentenceTerminators = "।॥.?!"

// SplitSentences breaks LLM output into TTS-ready sentences at the first
// terminator found for the detected script, or at MaxSentenceChars if none
// appears, mirroring how a streaming token consumer would enqueue text as
// soon as a boundary is seen.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	runes := []rune(text)

	for i, r := range runes {
		if strings.ContainsRune(sentenceTerminators, r) {
			sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
			start = i + 1
			continue
		}
		if i-start+1 >= MaxSentenceChars {
			sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
			start = i + 1
		}
	}

	if start < len(runes) {
		remainder := strings.TrimSpace(string(runes[start:]))
		if remainder != "" {
			sentences = append(sentences, remainder)
		}
	}
	return sentences
}
