package expert

import (
	"fmt"
	"strings"

	"tutorcore/internal/session"
)

const (
	briefLimit    = 300
	combinedLimit = 800
)

// apologyText is returned verbatim when retrieval finds nothing.
const apologyText = "Извините, в базе знаний нет информации по этому вопросу."

// makeBrief compacts text to at most limit runes, marking the cut with an
// ellipsis.
func makeBrief(text string, limit int) string {
	t := strings.ReplaceAll(strings.TrimSpace(text), "\n\n", "\n")
	r := []rune(t)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return t
}

var intentSections = map[session.Intent]string{
	session.IntentWhy: "Почему это важно:\n" +
		"- Связь с целями занятия\n" +
		"- Какие ошибки предотвращает\n" +
		"- Как влияет на результат",
	session.IntentHow: "Как действовать (шаги):\n" +
		"1) Изучите требования\n" +
		"2) Подготовьте данные/макет\n" +
		"3) Примените правила из материалов\n" +
		"4) Проверьте критерии качества",
	session.IntentWhatIf: "Что если (разбор вариантов):\n" +
		"- Если данных мало → используйте минималистичную схему\n" +
		"- Если аудитория не экспертная → упрощайте подписи\n" +
		"- Если форм-фактор узкий → избегайте перегруза",
	session.IntentExamples: "Примеры/кейсы:\n" +
		"- Одностраничная инфографика для отчёта\n" +
		"- Сравнительная диаграмма для презентации\n" +
		"- Пояснительная визуализация для учебного плаката",
}

// makeExplanation builds the structural explanation: intent sections only
// for short answers, prefixed with the base material for long ones.
func makeExplanation(base string, intents []session.Intent, detail session.Detail) string {
	var sections []string
	for _, it := range intents {
		if s, ok := intentSections[it]; ok {
			sections = append(sections, s)
		}
	}
	expl := strings.Join(sections, "\n\n")
	if detail == session.DetailLong {
		if expl == "" {
			return base
		}
		return base + "\n\n" + expl
	}
	if expl == "" {
		return "Ключевая мысль: см. основную часть ответа."
	}
	return expl
}

// buildNextSteps recommends what to do after reading the answer. The first
// derived task, when one exists, always leads.
func buildNextSteps(intents []session.Intent, ctx *session.Context) []string {
	var steps []string
	if tasks := ctx.Organizer().Tasks; len(tasks) > 0 {
		steps = append(steps, fmt.Sprintf("Выполни задание: «%s»", tasks[0].Instruction))
	}
	has := func(want session.Intent) bool {
		for _, it := range intents {
			if it == want {
				return true
			}
		}
		return false
	}
	if has(session.IntentHow) {
		steps = append(steps, "Сверься с чек-листом качества из материалов занятия.")
	}
	if has(session.IntentWhy) {
		steps = append(steps, "Выдели 2–3 аргумента, почему это важно именно для твоей аудитории.")
	}
	if has(session.IntentExamples) {
		steps = append(steps, "Найди 2 примера из реальных источников и кратко сравни их.")
	}
	if has(session.IntentWhatIf) {
		steps = append(steps, "Опиши 1–2 альтернативы для твоего кейса и выбери подходящую.")
	}
	if len(steps) == 0 {
		steps = append(steps, "Задай уточняющий вопрос или перейди к выполнению ближайшего задания.")
	}
	return steps
}
