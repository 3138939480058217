package service

import (
	"reflect"
	"testing"

	"github.com/meytoof/MentorAI-sub000/internal/model"
)

func TestParseAssistantReplyPlainJSON(t *testing.T) {
	raw := `{
		"bubbles": ["Regarde bien les **unités** de 47 et de 28.", "Que se passe-t-il quand 7 + 8 dépasse __10__ ?"],
		"encouragement": "Tu es sur la bonne voie !",
		"evaluation": "none",
		"segments": [{"id": "kw1", "text": "unités", "shortTip": "le chiffre de droite", "lesson": "Dans un nombre, le chiffre le plus à droite compte les unités."}]
	}`

	resp := ParseAssistantReply(raw, model.SubjectArithmetic)
	if resp == nil {
		t.Fatal("got nil, want parsed response")
	}
	if len(resp.Bubbles) != 2 {
		t.Fatalf("got %d bubbles, want 2", len(resp.Bubbles))
	}
	if resp.Encouragement != "Tu es sur la bonne voie !" {
		t.Errorf("encouragement = %q", resp.Encouragement)
	}
	if resp.Evaluation != "none" {
		t.Errorf("evaluation = %q, want none", resp.Evaluation)
	}
	if len(resp.Segments) != 1 || resp.Segments[0].ID != "kw1" {
		t.Errorf("segments = %+v", resp.Segments)
	}
	if !reflect.DeepEqual(resp.Keywords, []string{"unités"}) {
		t.Errorf("keywords = %v, want [unités]", resp.Keywords)
	}
	if resp.Subject != model.SubjectArithmetic {
		t.Errorf("subject = %q", resp.Subject)
	}
	if resp.Fallback {
		t.Error("fallback flag set on a successful parse")
	}
}

func TestParseAssistantReplyFencedWithProse(t *testing.T) {
	raw := "Voici ma réponse :\n```json\n" +
		`{"bubbles": ["Commence par compter les **côtés** de la figure."]}` +
		"\n```\nJ'espère que cela aide !"

	resp := ParseAssistantReply(raw, model.SubjectGeometry)
	if resp == nil {
		t.Fatal("got nil, want parsed response")
	}
	if len(resp.Bubbles) != 1 {
		t.Fatalf("got %d bubbles, want 1", len(resp.Bubbles))
	}
	if resp.Encouragement != "" {
		t.Errorf("encouragement = %q, want empty", resp.Encouragement)
	}
}

func TestParseAssistantReplyBareObjectInProse(t *testing.T) {
	raw := `Bien sûr ! {"bubbles": ["Relis la consigne et souligne le verbe conjugué."]} Voilà.`
	if resp := ParseAssistantReply(raw, model.SubjectGrammar); resp == nil {
		t.Fatal("got nil, want parsed response")
	}
}

func TestParseAssistantReplyRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"prose only", "Je ne peux pas répondre en JSON, désolé."},
		{"no bubbles", `{"encouragement": "Courage !"}`},
		{"empty bubbles", `{"bubbles": []}`},
		{"blank bubbles", `{"bubbles": ["", "   "]}`},
		{"all short bubbles", `{"bubbles": ["Oui.", "12+7"]}`},
		{"broken json", `{"bubbles": ["Regarde les unités de chaque nombre"`},
	}

	for _, c := range cases {
		if resp := ParseAssistantReply(c.raw, model.SubjectGeneral); resp != nil {
			t.Errorf("%s: got %+v, want nil", c.name, resp)
		}
	}
}

func TestParseAssistantReplyDropsMalformedOptionalFields(t *testing.T) {
	// encouragement is an object and segments a string; both are dropped
	// without rejecting the bubbles.
	raw := `{"bubbles": ["Compte d'abord les dizaines, ensuite les unités."], "encouragement": {"oops": 1}, "segments": "rien", "evaluation": "excellent"}`

	resp := ParseAssistantReply(raw, model.SubjectArithmetic)
	if resp == nil {
		t.Fatal("got nil, want parsed response")
	}
	if resp.Encouragement != "" {
		t.Errorf("encouragement = %q, want empty", resp.Encouragement)
	}
	if resp.Segments != nil {
		t.Errorf("segments = %+v, want nil", resp.Segments)
	}
	// An evaluation outside the known values normalizes to none.
	if resp.Evaluation != "none" {
		t.Errorf("evaluation = %q, want none", resp.Evaluation)
	}
}

func TestParseAssistantReplyKeywordExtraction(t *testing.T) {
	raw := `{"bubbles": ["Le **verbe** s'accorde avec le **sujet**.", "Cherche encore le **verbe** dans la phrase."]}`

	resp := ParseAssistantReply(raw, model.SubjectGrammar)
	if resp == nil {
		t.Fatal("got nil, want parsed response")
	}
	if !reflect.DeepEqual(resp.Keywords, []string{"verbe", "sujet"}) {
		t.Errorf("keywords = %v, want [verbe sujet]", resp.Keywords)
	}
}

func TestFallbackResponseStable(t *testing.T) {
	a := FallbackResponse(model.SubjectArithmetic)
	b := FallbackResponse(model.SubjectArithmetic)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("fallback responses differ between calls")
	}
	if !a.Fallback {
		t.Error("fallback flag not set")
	}
	if len(a.Bubbles) != 2 {
		t.Errorf("got %d bubbles, want 2", len(a.Bubbles))
	}
	if a.Evaluation != "none" {
		t.Errorf("evaluation = %q, want none", a.Evaluation)
	}
}

func TestJoinHint(t *testing.T) {
	got := JoinHint([]string{"Première piste.", "Deuxième piste."})
	if got != "Première piste. Deuxième piste." {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	s := "éléphant"
	if got := truncateRunes(s, 3); got != "élé" {
		t.Fatalf("got %q, want élé", got)
	}
	if got := truncateRunes(s, 100); got != s {
		t.Fatalf("got %q, want unchanged", got)
	}
}
