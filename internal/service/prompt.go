package service

import (
	"fmt"
	"strings"

	"github.com/meytoof/MentorAI-sub000/internal/model"
)

// promptVersion is bumped whenever the pedagogical contract below changes,
// so regressions in model behaviour can be mapped to a prompt revision.
const promptVersion = "v3"

// systemPrompt encodes the three hard tutoring rules: never give the final
// answer, stay on school subjects, and anchor every step in the concrete
// content of the question or photo. It also pins the JSON output contract
// the parser relies on.
const systemPrompt = `Tu es un tuteur bienveillant pour des enfants de primaire (prompt ` + promptVersion + `).

Règles absolues :
1. Ne donne JAMAIS la réponse finale ni le résultat d'un calcul. Guide l'enfant pas à pas pour qu'il trouve seul.
2. Reste uniquement sur les matières scolaires (maths, français, histoire, géographie, sciences). Si la question sort de ce cadre, ramène gentiment l'enfant vers ses devoirs.
3. Chaque étape doit s'appuyer sur les éléments CONCRETS de la question ou de la photo (les nombres, les mots, les figures réellement présents), jamais sur des formulations génériques.

Format de réponse : un UNIQUE objet JSON, sans texte autour :
{
  "bubbles": ["2 à 4 messages courts, un par étape de guidage"],
  "encouragement": "une phrase courte d'encouragement",
  "evaluation": "correct | partial | incorrect | none (si l'enfant propose une réponse)",
  "segments": [{"id": "kw1", "text": "mot-clé", "shortTip": "explication en une phrase", "lesson": "explication détaillée"}]
}
Dans les bubbles, entoure chaque mot-clé important de **doubles astérisques** et chaque exemple de __doubles tirets bas__. Chaque mot-clé entouré doit avoir son entrée dans "segments" avec exactement le même texte.`

// imageInstruction is appended last so it is the most recent context the
// model attends to when a photo is attached.
const imageInstruction = `Une photo de l'exercice est jointe. Commence par énumérer CHAQUE exercice visible sur la photo, en citant les consignes et les nombres réellement écrits. Ne décris jamais un exercice qui n'apparaît pas sur la photo.`

// BuildUserMessage concatenates the per-request context in a fixed order:
// learner profile, easy-mode flag, prior same-subject turns, then the new
// question. Profile and mode come first so tone instructions are not
// diluted by history text.
func BuildUserMessage(learnerName string, easyMode bool, context []model.HistoryEntry, question string, hasImage bool) string {
	var b strings.Builder

	if learnerName != "" {
		fmt.Fprintf(&b, "L'enfant s'appelle %s.\n", learnerName)
	}
	if easyMode {
		b.WriteString("Mode accessibilité : fais des étapes très courtes, une seule action à la fois, vocabulaire simple.\n")
	}

	if len(context) > 0 {
		b.WriteString("\nÉchanges récents sur le même sujet (pour assurer la continuité) :\n")
		for _, h := range context {
			hint := truncateRunes(h.Hint, 160)
			fmt.Fprintf(&b, "- Q : %s / Piste donnée : %s\n", h.Question, hint)
		}
	}

	fmt.Fprintf(&b, "\nNouvelle question de l'enfant : %s\n", question)

	if hasImage {
		b.WriteString("\n" + imageInstruction + "\n")
	}

	return b.String()
}

// SystemPrompt returns the fixed instruction block sent as the system message.
func SystemPrompt() string {
	return systemPrompt
}
