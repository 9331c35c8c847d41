package util

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	tokenizerOnce.Do(func() {
		t, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			log.Warnf("sentence tokenizer unavailable, previews fall back to truncation: %v", err)
			return
		}
		tokenizer = t
	})
	return tokenizer
}

// Preview returns a short, single-line rendering of a ticket description for
// diagnostics: the first sentence, cut to maxRunes with a "..." suffix.
func Preview(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	if t := sentenceTokenizer(); t != nil {
		if sents := t.Tokenize(text); len(sents) > 0 {
			first := strings.TrimSpace(sents[0].Text)
			if first != "" && len(sents) > 1 {
				text = first + " ..."
			}
		}
	}
	return truncateRunes(text, maxRunes)
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxRunes]) + "..."
}
