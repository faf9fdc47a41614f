// Package i18n formats the chat lines players see, in the configured locale.
package i18n

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	PrefixKey   = "Prefix"
	QuestionKey = "MathQuiz.Question"
	NoAnswerKey = "MathQuiz.NoAnswer"
	AwardedKey  = "MathQuiz.Awarded"
)

var supported = []language.Tag{language.English, language.BrazilianPortuguese}

var matcher = language.NewMatcher(supported)

func init() {
	en := language.English
	message.SetString(en, PrefixKey, "[MathQuiz] ")
	message.SetString(en, QuestionKey, "Solve %s and earn %d credits!")
	message.SetString(en, NoAnswerKey, "Nobody got it. The answer was %s. Next question in %d seconds.")
	message.SetString(en, AwardedKey, "%s answered correctly and earned %d credits!")

	pt := language.BrazilianPortuguese
	message.SetString(pt, PrefixKey, "[MathQuiz] ")
	message.SetString(pt, QuestionKey, "Resolva %s e ganhe %d créditos!")
	message.SetString(pt, NoAnswerKey, "Ninguém acertou. A resposta era %s. Próxima pergunta em %d segundos.")
	message.SetString(pt, AwardedKey, "%s acertou e ganhou %d créditos!")
}

// Localizer renders quiz messages for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest supported match of locale.
// Unknown or empty locales fall back to English.
func New(locale string) *Localizer {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the locale in use.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Prefix is prepended to every quiz line.
func (l *Localizer) Prefix() string {
	return l.printer.Sprintf(PrefixKey)
}

// Question announces a new question.
func (l *Localizer) Question(expression string, reward int) string {
	return l.Prefix() + l.printer.Sprintf(QuestionKey, expression, reward)
}

// NoAnswer announces a timed-out question and when the next one comes.
func (l *Localizer) NoAnswer(answer float64, cooldownSeconds int) string {
	return l.Prefix() + l.printer.Sprintf(NoAnswerKey, FormatAnswer(answer), cooldownSeconds)
}

// Awarded announces the winner of a question.
func (l *Localizer) Awarded(name string, reward int) string {
	return l.Prefix() + l.printer.Sprintf(AwardedKey, name, reward)
}

// FormatAnswer renders an answer the way players are expected to type it.
func FormatAnswer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
