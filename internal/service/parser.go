package service

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/meytoof/MentorAI-sub000/internal/model"
)

var (
	codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	// Greedy span match: takes the largest {...} block in the reply.
	// Tolerant of prose noise around the object, fragile to stray braces
	// in prose before it; model outputs observed so far never do that.
	jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)
	keywordRe  = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// minBubbleRunes guards against degenerate one-word replies: at least one
// bubble must carry more than this many characters after trimming.
const minBubbleRunes = 5

// rawAssistantReply mirrors the JSON contract requested from the model.
// Segments, encouragement and evaluation are decoded individually so a
// malformed optional field is dropped without rejecting the whole reply.
type rawAssistantReply struct {
	Bubbles       []string        `json:"bubbles"`
	Encouragement json.RawMessage `json:"encouragement"`
	Evaluation    json.RawMessage `json:"evaluation"`
	Segments      json.RawMessage `json:"segments"`
}

// ParseAssistantReply extracts the structured tutoring response from raw
// model output. Returns nil on any decode or validation failure; the
// caller substitutes the fallback, never an error.
func ParseAssistantReply(raw string, subject model.Subject) *model.AssistantResponse {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	text := raw
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	span := jsonSpanRe.FindString(text)
	if span == "" {
		return nil
	}

	var reply rawAssistantReply
	if err := json.Unmarshal([]byte(span), &reply); err != nil {
		return nil
	}

	bubbles := make([]string, 0, len(reply.Bubbles))
	longest := 0
	for _, b := range reply.Bubbles {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if n := utf8.RuneCountInString(b); n > longest {
			longest = n
		}
		bubbles = append(bubbles, b)
	}
	if len(bubbles) == 0 || longest <= minBubbleRunes {
		return nil
	}

	resp := &model.AssistantResponse{
		Bubbles:    bubbles,
		Evaluation: "none",
		Subject:    subject,
	}

	var encouragement string
	if reply.Encouragement != nil && json.Unmarshal(reply.Encouragement, &encouragement) == nil {
		resp.Encouragement = strings.TrimSpace(encouragement)
	}

	var evaluation string
	if reply.Evaluation != nil && json.Unmarshal(reply.Evaluation, &evaluation) == nil {
		switch evaluation {
		case "correct", "partial", "incorrect":
			resp.Evaluation = evaluation
		}
	}

	var segments []model.Segment
	if reply.Segments != nil && json.Unmarshal(reply.Segments, &segments) == nil {
		for _, s := range segments {
			if strings.TrimSpace(s.Text) == "" {
				continue
			}
			resp.Segments = append(resp.Segments, s)
		}
	}

	resp.Keywords = extractKeywords(bubbles)

	return resp
}

// JoinHint flattens bubbles into the single guidance string persisted in
// the conversation log.
func JoinHint(bubbles []string) string {
	return strings.Join(bubbles, " ")
}

// extractKeywords pulls the **flagged** spans out of the bubble text, in
// order of appearance, without duplicates.
func extractKeywords(bubbles []string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, b := range bubbles {
		for _, m := range keywordRe.FindAllStringSubmatch(b, -1) {
			kw := strings.TrimSpace(m[1])
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// FallbackResponse is the fixed safe default returned whenever the primary
// path fails, whatever the cause. The child sees a friendly nudge to retry,
// never an infrastructure error.
func FallbackResponse(subject model.Subject) *model.AssistantResponse {
	return &model.AssistantResponse{
		Bubbles: []string{
			"Je n'ai pas réussi à bien lire ta question cette fois-ci.",
			"Tu peux la reformuler avec tes mots, ou m'envoyer une photo de ton exercice ?",
		},
		Encouragement: "Ne te décourage pas, on va y arriver ensemble !",
		Evaluation:    "none",
		Subject:       subject,
		Fallback:      true,
	}
}

// truncateRunes caps s at max runes, byte-safe for accented text.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
