package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matricare/api/internal/domain/child"
	"github.com/matricare/api/internal/domain/consultation"
	"github.com/matricare/api/internal/domain/mood"
	"github.com/matricare/api/internal/domain/mother"
)

// chatSystemPrompt frames the assistant for mother-facing chat. It is sent as
// the first turn of every conversation.
const chatSystemPrompt = `You are a caring maternal health assistant for mothers ` +
	`during pregnancy and the postpartum period. Answer briefly, warmly and in ` +
	`plain language. You are not a doctor: for anything urgent or clinical, ` +
	`advise contacting a healthcare professional.`

// buildMotherReportPrompt assembles the structured prompt for a mother
// wellness report from her profile, mood statistics and recent consultations.
func buildMotherReportPrompt(p *mother.Profile, stats mood.Stats, consultations []*consultation.Consultation) string {
	var b strings.Builder
	b.WriteString("Write a short, supportive wellness report for a mother based on the data below.\n")
	b.WriteString("Structure it as: overall summary, mood, consultations, suggestions.\n\n")

	b.WriteString("Profile:\n")
	if p == nil {
		b.WriteString("- no profile on record\n")
	} else {
		fmt.Fprintf(&b, "- pregnancy stage: %s\n", p.PregnancyStage)
		if p.PregnancyStage == mother.StagePregnant {
			fmt.Fprintf(&b, "- pregnancy week: %d\n", p.PregnancyWeek)
		}
		if p.Age > 0 {
			fmt.Fprintf(&b, "- age: %d\n", p.Age)
		}
		if p.FamilySupport != "" {
			fmt.Fprintf(&b, "- family support: %s\n", p.FamilySupport)
		}
		if p.MentalHealthHistory != "" {
			fmt.Fprintf(&b, "- mental health history: %s\n", p.MentalHealthHistory)
		}
		if len(p.Concerns) > 0 {
			fmt.Fprintf(&b, "- concerns: %s\n", strings.Join(p.Concerns, ", "))
		}
	}

	b.WriteString("\nMood tracking:\n")
	if stats.NumberOfMoodTracks == 0 {
		b.WriteString("- no mood entries yet\n")
	} else {
		fmt.Fprintf(&b, "- entries: %d\n", stats.NumberOfMoodTracks)
		fmt.Fprintf(&b, "- average mood (1-5): %.1f\n", stats.AverageMood)
		fmt.Fprintf(&b, "- happy days: %d\n", stats.HappyDays)
	}

	b.WriteString("\nRecent consultations:\n")
	if len(consultations) == 0 {
		b.WriteString("- none\n")
	} else {
		for _, c := range consultations {
			fmt.Fprintf(&b, "- [%s, urgency %s] %s\n", c.Status, c.Urgency, c.Message)
		}
	}
	return b.String()
}

// buildChildReportPrompt assembles the prompt for a child development report
// from the profile and the screening-game outcomes.
func buildChildReportPrompt(ch *child.Child) string {
	var b strings.Builder
	b.WriteString("Write a short, parent-friendly developmental report for a child based on the data below.\n")
	b.WriteString("The screening games are indicative only; say clearly they are not a diagnosis.\n\n")

	b.WriteString("Child:\n")
	fmt.Fprintf(&b, "- gender: %s\n", ch.Gender)
	fmt.Fprintf(&b, "- date of birth: %s\n", ch.DateOfBirth.Format("2006-01-02"))
	if ch.Notes != "" {
		fmt.Fprintf(&b, "- notes: %s\n", ch.Notes)
	}

	b.WriteString("\nScreening results:\n")
	if len(ch.Screenings) == 0 {
		b.WriteString("- no games played yet\n")
		return b.String()
	}
	slots := make([]string, 0, len(ch.Screenings))
	for slot := range ch.Screenings {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		res := ch.Screenings[slot]
		fmt.Fprintf(&b, "- %s (screens for %s): score %.0f", slot, child.ScreeningConditions[slot], res.Score)
		if res.RiskLevel != "" {
			fmt.Fprintf(&b, ", risk %s", res.RiskLevel)
		}
		b.WriteString("\n")
	}
	return b.String()
}
