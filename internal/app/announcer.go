package app

import (
	"math-quiz-service/internal/domain"
	"math-quiz-service/internal/i18n"
)

// Broadcaster sends a line to all participants.
type Broadcaster interface {
	Broadcast(line domain.ChatLine)
}

// Announcer turns round events into localized chat lines.
type Announcer struct {
	out       Broadcaster
	localizer *i18n.Localizer
}

func NewAnnouncer(out Broadcaster, localizer *i18n.Localizer) *Announcer {
	return &Announcer{out: out, localizer: localizer}
}

// Notify implements Notifier.
func (a *Announcer) Notify(event domain.Event) {
	var text string
	switch event.Kind {
	case domain.EventRoundStarted:
		text = a.localizer.Question(event.Expression, event.Reward)
	case domain.EventRoundAwarded:
		name := event.Participant.DisplayName
		if name == "" {
			name = event.Participant.ID
		}
		text = a.localizer.Awarded(name, event.Reward)
	case domain.EventRoundTimedOut:
		text = a.localizer.NoAnswer(event.Answer, int(event.Cooldown.Seconds()))
	default:
		return
	}
	a.out.Broadcast(domain.ChatLine{Kind: event.Kind, Text: text})
}
