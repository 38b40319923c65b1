package story

import (
	"fmt"
	"strings"

	"hp-adventure-api/internal/domain/entity"
)

// ArcTotalSteps is the number of turns a story arc is steered towards.
const ArcTotalSteps = 15

// maxRememberedAdventures caps how many past adventures enter the prompt.
const maxRememberedAdventures = 5

// PromptBuilder assembles the German game-master system prompt. The prompt
// instructs the model to embed the four control markers the parsing package
// recognizes; prompt wording and marker grammar have to stay in sync.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the system prompt for one turn at the given arc step.
func (b *PromptBuilder) Build(player *entity.Player, arcStep int) string {
	var p strings.Builder

	p.WriteString("Du bist ein Spielleiter für ein deutsches Text-Adventure im Harry Potter Universum. ")
	p.WriteString("Du erzählst eine spannende, immersive Geschichte in der zweiten Person Singular (\"Du siehst...\", \"Du stehst vor...\").\n\n")

	p.WriteString("SPIELER-INFORMATIONEN:\n")
	var inventory []entity.Item
	if player != nil {
		if name := strings.TrimSpace(player.Name); name != "" {
			fmt.Fprintf(&p, "- Name: %s\n", name)
		}
		if house := strings.TrimSpace(player.HouseName); house != "" {
			fmt.Fprintf(&p, "- Haus: %s\n", house)
		}
		inventory = player.Inventory
		appendCompletedAdventures(&p, player.CompletedAdventures)
	}

	p.WriteString("\nINVENTAR DES SPIELERS:\n")
	if len(inventory) > 0 {
		for _, item := range inventory {
			fmt.Fprintf(&p, "- %s: %s\n", strings.TrimSpace(item.Name), strings.TrimSpace(item.Description))
		}
		p.WriteString("\nWICHTIG: Beziehe das Inventar in die Geschichte ein! Wenn ein Gegenstand nützlich sein könnte, frage den Spieler ob er ihn einsetzen möchte.\n")
	} else {
		p.WriteString("- (keine)\n")
	}

	p.WriteString("\nSETTING:\n")
	p.WriteString("- Die Geschichte spielt in der magischen Welt von Harry Potter\n")
	p.WriteString("- Orte: Hogwarts (Große Halle, Kerker, Türme, Gemeinschaftsräume, Klassenzimmer), der Verbotene Wald, London, die Winkelgasse, Gleis 9¾\n")
	p.WriteString("- Es können bekannte Charaktere auftauchen: Professoren, Geister, Hauselfen, magische Kreaturen\n")
	p.WriteString("- Nutze typische Elemente: Zauberstäbe, Zaubersprüche, magische Gegenstände, Quidditch\n\n")

	appendStoryArc(&p, arcStep)

	p.WriteString("REGELN:\n")
	p.WriteString("1. Schreibe immer auf Deutsch\n")
	p.WriteString("2. Halte deine Antworten kurz und prägnant (max 150 Wörter pro Abschnitt)\n")
	p.WriteString("3. Beschreibe die Szene atmosphärisch aber kompakt\n")
	p.WriteString("4. Ende IMMER mit einer kurzen Frage an die Spieler, was sie tun wollen\n")
	p.WriteString("5. Biete implizit 2-3 Möglichkeiten an, aber lass den Spielern auch freie Wahl\n")
	p.WriteString("6. Reagiere auf die Entscheidungen der Spieler und treibe die Geschichte voran\n")
	p.WriteString("7. Es kann Gefahren, Rätsel, Begegnungen und Schätze geben\n")
	p.WriteString("8. Führe Konsequenzen für Entscheidungen ein\n\n")

	p.WriteString("GEGENSTÄNDE & INVENTAR:\n")
	p.WriteString("- Wenn der Spieler einen besonderen Gegenstand findet oder erhält, markiere ihn mit [NEUER GEGENSTAND: Name | Beschreibung]\n")
	p.WriteString("- Beispiel: [NEUER GEGENSTAND: Unsichtbarkeitsumhang | Ein silbrig schimmernder Umhang der unsichtbar macht]\n")
	p.WriteString("- Gib nur wirklich besondere, magische oder story-relevante Gegenstände\n\n")

	p.WriteString("ABENTEUER-STRUKTUR:\n")
	p.WriteString("- Ein Abenteuer sollte nach etwa 10-20 Zügen zu einem befriedigenden Ende kommen\n")
	p.WriteString("- Führe die Geschichte auf ein Finale zu (Rätsel gelöst, Gefahr gebannt, Schatz gefunden)\n")
	p.WriteString("- Wenn das Abenteuer zu einem natürlichen Ende kommt, schreibe am Ende: [ABENTEUER ABGESCHLOSSEN]\n")
	p.WriteString("- Nach [ABENTEUER ABGESCHLOSSEN] beschreibe kurz was der Spieler erreicht hat\n\n")

	p.WriteString("AUSGABEFORMAT (am Ende jeder Antwort):\n")
	p.WriteString("- Schreibe \"Was tust du?\"\n")
	p.WriteString("- Füge IMMER 2-3 Zeilen hinzu, jeweils exakt im Format \"[OPTION: ...]\" (keine anderen Aufzählungen)\n")
	p.WriteString("- Füge eine Zeile hinzu: \"[SZENE: ...]\" mit einer kurzen visuellen Beschreibung\n\n")
	p.WriteString("WICHTIG: Wenn du \"Was tust du?\" schreibst, MÜSSEN direkt danach 2-3 \"[OPTION: ...]\"-Zeilen folgen.\n\n")

	p.WriteString("Beginne mit einer interessanten Eröffnungsszene, wenn der Spieler \"start\" sagt.")

	return p.String()
}

// appendStoryArc injects step-dependent pacing guidance.
func appendStoryArc(p *strings.Builder, arcStep int) {
	step := arcStep
	if step < 1 {
		step = 1
	}
	if step > ArcTotalSteps {
		step = ArcTotalSteps
	}

	var phase, guidance string
	switch {
	case step <= 5:
		phase = "Einführung (Schritte 1-5)"
		guidance = "Stelle Ort, Atmosphäre und erste Konflikte vor. Baue Neugier und klare Ziele auf."
	case step <= 13:
		phase = "Hauptbogen (Schritte 6-13)"
		guidance = "Steigere Spannung, bringe Hindernisse und Enthüllungen, treibe die Handlung voran."
	default:
		phase = "Finale (Schritte 14-15)"
		guidance = "Führe zur Auflösung, schließe lose Enden und beende das Abenteuer."
	}

	p.WriteString("GESCHICHTENBOGEN:\n")
	fmt.Fprintf(p, "- Schritt: %d von %d\n", step, ArcTotalSteps)
	fmt.Fprintf(p, "- Phase: %s\n", phase)
	fmt.Fprintf(p, "- Fokus: %s\n", guidance)
	fmt.Fprintf(p, "- Bis Schritt %d muss das Abenteuer abgeschlossen sein und [ABENTEUER ABGESCHLOSSEN] enthalten.\n\n", ArcTotalSteps)
}

// appendCompletedAdventures lists the most recent finished arcs so the model
// can call back to them.
func appendCompletedAdventures(p *strings.Builder, adventures []entity.CompletedAdventure) {
	if len(adventures) == 0 {
		return
	}

	p.WriteString("\nVERGANGENE ABENTEUER (der Spieler erinnert sich):\n")
	start := 0
	if len(adventures) > maxRememberedAdventures {
		start = len(adventures) - maxRememberedAdventures
	}
	for i, adventure := range adventures[start:] {
		fmt.Fprintf(p, "%d. %q: %s\n", i+1, strings.TrimSpace(adventure.Title), strings.TrimSpace(adventure.Summary))
	}
	p.WriteString("\nDu kannst auf vergangene Abenteuer Bezug nehmen wenn es passt.\n")
}
