package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/meytoof/MentorAI-sub000/internal/model"
)

func TestClassifySubject(t *testing.T) {
	cases := []struct {
		question string
		want     model.Subject
	}{
		{"Combien font 47 + 28 ?", model.SubjectArithmetic},
		{"12+7", model.SubjectArithmetic},
		{"Je n'arrive pas à faire 144 : 12", model.SubjectArithmetic},
		{"9 x 8 c'est quoi déjà", model.SubjectArithmetic},
		{"C'est quoi la table de 7 ?", model.SubjectArithmetic},
		{"Comment trouver le périmètre d'un rectangle ?", model.SubjectGeometry},
		{"Mon triangle a trois côtés égaux", model.SubjectGeometry},
		{"Comment conjuguer le verbe aller à l'imparfait ?", model.SubjectGrammar},
		{"accord du participe passé", model.SubjectGrammar},
		{"Qui était Napoléon ?", model.SubjectHistory},
		{"la révolution française", model.SubjectHistory},
		{"Quelle est la capitale de l'Espagne ?", model.SubjectGeography},
		{"le plus long fleuve de France", model.SubjectGeography},
		{"Comment respire une plante ?", model.SubjectScience},
		{"le système solaire", model.SubjectScience},
		{"Je ne comprends pas mes devoirs", model.SubjectGeneral},
		{"", model.SubjectGeneral},
		{"aaaa bbbb cccc", model.SubjectGeneral},
	}

	for _, c := range cases {
		if got := ClassifySubject(c.question); got != c.want {
			t.Errorf("ClassifySubject(%q) = %q, want %q", c.question, got, c.want)
		}
	}
}

// Keywords must match at word starts only: "aire" inside "solaire" or
// "grammaire" is not a geometry signal, "fois" inside "parfois" is not an
// arithmetic one. Stems still cover inflected forms.
func TestClassifySubjectKeywordsMatchWordStarts(t *testing.T) {
	cases := []struct {
		question string
		want     model.Subject
	}{
		{"J'ai un exercice de grammaire", model.SubjectGrammar},
		{"C'est l'anniversaire de la révolution", model.SubjectHistory},
		{"Je me trompe parfois dans mes exercices", model.SubjectGeneral},
		{"Comment trouver l'aire ?", model.SubjectGeometry},
		{"Je dois calculer une somme", model.SubjectArithmetic},
		{"Compare les aires de ces deux dessins", model.SubjectGeometry},
	}

	for _, c := range cases {
		if got := ClassifySubject(c.question); got != c.want {
			t.Errorf("ClassifySubject(%q) = %q, want %q", c.question, got, c.want)
		}
	}
}

func TestClassifySubjectArithmeticPatternWinsOverKeywords(t *testing.T) {
	// A digit expression buried in prose about another subject still
	// classifies as arithmetic because the pattern rule runs first.
	q := "Pour mon exposé d'histoire je dois poser 12 + 7 quelque part"
	if got := ClassifySubject(q); got != model.SubjectArithmetic {
		t.Fatalf("got %q, want %q", got, model.SubjectArithmetic)
	}
}

func TestClassifySubjectDeterministic(t *testing.T) {
	q := "Comment conjuguer le verbe histoire de voir ?"
	first := ClassifySubject(q)
	for i := 0; i < 10; i++ {
		if got := ClassifySubject(q); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestSelectContextFiltersAndReorders(t *testing.T) {
	now := time.Now()
	// Most-recent-first, like the repository returns them.
	entries := []model.HistoryEntry{
		{Question: "Combien font 9 x 6 ?", Hint: "hint-newest", CreatedAt: now},
		{Question: "Quelle est la capitale de l'Italie ?", Hint: "geo", CreatedAt: now.Add(-1 * time.Minute)},
		{Question: "Et 8 x 7 ?", Hint: "hint-mid", CreatedAt: now.Add(-2 * time.Minute)},
		{Question: "Je bloque sur 45 + 17", Hint: "hint-old", CreatedAt: now.Add(-3 * time.Minute)},
		{Question: "Encore un calcul : 3 x 4", Hint: "hint-oldest", CreatedAt: now.Add(-4 * time.Minute)},
	}

	got := SelectContext(model.SubjectArithmetic, entries, 3)

	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	// The three most recent arithmetic entries, back in chronological order.
	wantHints := []string{"hint-old", "hint-mid", "hint-newest"}
	for i, w := range wantHints {
		if got[i].Hint != w {
			t.Errorf("entry %d: hint = %q, want %q", i, got[i].Hint, w)
		}
		if got[i].Subject != model.SubjectArithmetic {
			t.Errorf("entry %d: subject = %q, want %q", i, got[i].Subject, model.SubjectArithmetic)
		}
	}
}

func TestSelectContextNoMatches(t *testing.T) {
	entries := []model.HistoryEntry{
		{Question: "Quelle est la capitale de l'Italie ?"},
		{Question: "Qui était Napoléon ?"},
	}
	if got := SelectContext(model.SubjectArithmetic, entries, 3); len(got) != 0 {
		t.Fatalf("got %d entries, want 0", len(got))
	}
}

func TestSelectContextZeroBudget(t *testing.T) {
	entries := []model.HistoryEntry{{Question: "12 + 7"}}
	if got := SelectContext(model.SubjectArithmetic, entries, 0); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestSelectContextFewerThanBudget(t *testing.T) {
	entries := make([]model.HistoryEntry, 0, 2)
	for i := 0; i < 2; i++ {
		entries = append(entries, model.HistoryEntry{Question: fmt.Sprintf("%d + %d", i, i)})
	}
	if got := SelectContext(model.SubjectArithmetic, entries, 3); len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
}
