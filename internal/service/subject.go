package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/meytoof/MentorAI-sub000/internal/model"
)

// subjectRule is one classification predicate. Rules are evaluated in
// order and the first match wins, so arithmetic patterns run before the
// broader vocabulary lists to keep word problems out of "general".
type subjectRule struct {
	subject  model.Subject
	pattern  *regexp.Regexp
	keywords []string
}

var arithmeticExprRe = regexp.MustCompile(`\d+\s*[-+*/xX×÷:]\s*\d+`)

var subjectRules = []subjectRule{
	{
		subject:  model.SubjectArithmetic,
		pattern:  arithmeticExprRe,
		keywords: []string{"calcul", "addition", "soustraction", "multiplication", "division", "combien font", "fois", "opération", "table de", "nombre", "chiffre", "fraction"},
	},
	{
		subject:  model.SubjectGeometry,
		keywords: []string{"triangle", "carré", "cercle", "rectangle", "losange", "périmètre", "aire", "angle", "symétrie", "droite", "segment", "géométrie", "figure"},
	},
	{
		subject:  model.SubjectGrammar,
		keywords: []string{"conjug", "verbe", "grammaire", "orthographe", "accord", "pluriel", "singulier", "adjectif", "complément", "sujet du verbe", "imparfait", "passé composé", "dictée"},
	},
	{
		subject:  model.SubjectHistory,
		keywords: []string{"histoire", "préhistoire", "roi ", "reine", "révolution", "guerre", "moyen âge", "château fort", "napoléon", "gaulois", "antiquité"},
	},
	{
		subject:  model.SubjectGeography,
		keywords: []string{"géographie", "capitale", "fleuve", "montagne", "pays", "continent", "océan", "carte", "climat", "région"},
	},
	{
		subject:  model.SubjectScience,
		keywords: []string{"science", "plante", "animal", "corps humain", "électricité", "énergie", "planète", "système solaire", "eau ", "respiration", "squelette", "expérience"},
	},
}

// matchKeyword reports whether kw occurs in lower at the start of a word.
// The match may run into the word, so stems cover inflections ("calcul"
// matches "calculer", "aire" matches "aires"), but letters before the
// keyword disqualify it: "aire" does not match "solaire" or "grammaire".
func matchKeyword(lower, kw string) bool {
	for start := 0; ; {
		idx := strings.Index(lower[start:], kw)
		if idx < 0 {
			return false
		}
		idx += start
		if idx == 0 {
			return true
		}
		if r, _ := utf8.DecodeLastRuneInString(lower[:idx]); !unicode.IsLetter(r) {
			return true
		}
		start = idx + 1
	}
}

// ClassifySubject maps free question text to a subject tag. Total and
// deterministic; unknown text falls through to SubjectGeneral. Safe on
// arbitrary untrusted input.
func ClassifySubject(text string) model.Subject {
	lower := strings.ToLower(text)

	for _, rule := range subjectRules {
		if rule.pattern != nil && rule.pattern.MatchString(text) {
			return rule.subject
		}
		for _, kw := range rule.keywords {
			if matchKeyword(lower, kw) {
				return rule.subject
			}
		}
	}

	return model.SubjectGeneral
}

// SelectContext filters past exchanges to the requested subject and keeps
// at most maxItems of the most recent ones. Entries arrive most-recent-first
// (repository order); the result is put back in chronological order so the
// prompt reads oldest to newest. Each entry's subject is recomputed with
// ClassifySubject so the filter and the new question use the same rule set.
func SelectContext(subject model.Subject, entries []model.HistoryEntry, maxItems int) []model.HistoryEntry {
	if maxItems <= 0 {
		return nil
	}

	selected := make([]model.HistoryEntry, 0, maxItems)
	for _, e := range entries {
		if ClassifySubject(e.Question) != subject {
			continue
		}
		e.Subject = subject
		selected = append(selected, e)
		if len(selected) == maxItems {
			break
		}
	}

	// reverse into oldest-first order
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}

	return selected
}
