package empathy

type phraseKey struct {
	situation string
	tone      string
}

// phraseLibrary holds the intro/outro phrase pools keyed by (situation,
// tone). Missing (situation, neutral) entries fall back to warm; a fully
// unknown situation falls back to (start, warm).
var phraseLibrary = map[phraseKey][]string{
	{SituationStart, ToneWarm}: {
		"Рада тебя видеть! Начнём спокойно, шаг за шагом.",
		"Привет! Сегодня разберёмся вместе, не торопясь.",
	},
	{SituationStart, ToneNeutral}: {
		"Начинаем занятие.",
		"Приступим к теме.",
	},
	{SituationSuccess, ToneWarm}: {
		"Отлично получилось, так держать!",
		"Здорово! Ты отлично справляешься.",
	},
	{SituationSuccess, ToneNeutral}: {
		"Задание выполнено верно.",
		"Результат правильный.",
	},
	{SituationError, ToneWarm}: {
		"Ошибки — это часть обучения. Давай разберём вместе.",
		"Ничего страшного, сейчас найдём, где неточность.",
	},
	{SituationError, ToneNeutral}: {
		"В решении есть неточность, посмотрим ещё раз.",
		"Стоит перепроверить этот шаг.",
	},
	{SituationDoubt, ToneWarm}: {
		"Сомневаться — значит думать. Давай проверим вместе.",
		"Хороший вопрос для проверки, разберём его.",
	},
	{SituationDoubt, ToneNeutral}: {
		"Если есть сомнения, уточним детали.",
	},
	{SituationFrustration, ToneWarm}: {
		"Чувствовать трудность — нормально. Пойдём маленькими шагами, я рядом.",
		"Давай сбавим темп и разберём по частям, без спешки.",
	},
	{SituationFrustration, ToneNeutral}: {
		"Сделаем паузу и разберём по частям.",
	},
	{SituationHelpRequest, ToneWarm}: {
		"Конечно помогу! Смотри, как можно подойти к этому.",
		"С удовольствием подскажу, вот с чего начать.",
	},
	{SituationHelpRequest, ToneNeutral}: {
		"Вот что можно сделать.",
	},
	{SituationEnd, ToneWarm}: {
		"Ты хорошо поработал сегодня. До встречи!",
		"Отличное занятие, отдыхай. До следующего раза!",
	},
	{SituationEnd, ToneNeutral}: {
		"Занятие завершено.",
	},
}

// positionBySituation decides whether the phrase goes before or after the
// expert answer.
var positionBySituation = map[string]string{
	SituationStart:       positionIntro,
	SituationSuccess:     positionOutro,
	SituationError:       positionIntro,
	SituationDoubt:       positionIntro,
	SituationFrustration: positionIntro,
	SituationHelpRequest: positionIntro,
	SituationEnd:         positionOutro,
}

const (
	positionIntro = "intro"
	positionOutro = "outro"
)
