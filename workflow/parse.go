package workflow

import (
	"regexp"
	"slices"
	"strings"
)

// DefaultModalities is assumed when a request names no modality keyword.
// Never empty: every parsed request asks for something.
var DefaultModalities = []Modality{ModalityImage, ModalityAudio}

var modalityKeywords = []struct {
	modality Modality
	words    []string
}{
	{ModalityAudio, []string{"audio", "voice", "speech", "tts"}},
	{ModalityImage, []string{"image", "photo", "picture", "art"}},
	{ModalityVideo, []string{"video", "clip", "animation"}},
}

var (
	keywordPattern    = regexp.MustCompile(`(?i)\b(audio|voice|speech|tts|image|photo|picture|art|video|clip|animation)\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ParsedRequest is the parser's output: the cleaned prompt plus the set of
// modalities the user asked for.
type ParsedRequest struct {
	Prompt              string
	RequestedModalities []Modality
}

// ParseRequest classifies free-text user input into a cleaned prompt and a
// requested-modality set. Keyword groups are checked independently, so one
// request can ask for several modalities. The cleaned prompt has all
// modality keywords stripped at word boundaries with whitespace collapsed;
// if stripping consumes the whole input the raw text is returned verbatim.
// Pure and deterministic; stripping is idempotent.
func ParseRequest(raw string) ParsedRequest {
	text := strings.ToLower(raw)

	var modalities []Modality
	for _, group := range modalityKeywords {
		for _, word := range group.words {
			if strings.Contains(text, word) {
				modalities = append(modalities, group.modality)
				break
			}
		}
	}
	if len(modalities) == 0 {
		modalities = slices.Clone(DefaultModalities)
	}

	cleaned := keywordPattern.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		cleaned = raw
	}

	return ParsedRequest{
		Prompt:              cleaned,
		RequestedModalities: modalities,
	}
}
