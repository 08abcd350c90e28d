// Package motivator tracks the student's situational level (S1..S4),
// detects motivation-drop scenarios, and picks supportive phrases,
// challenges and reflection questions.
package motivator

import "tutorcore/internal/session"

// LevelNames are the situational leadership level descriptions.
var LevelNames = map[int]string{
	1: "S1 Новичок (низкая компетентность, высокая мотивация)",
	2: "S2 Ученик в кризисе (низкая компетентность, низкая мотивация)",
	3: "S3 Продвинутый (компетентность средняя/высокая, мотивация колеблется)",
	4: "S4 Самостоятельный (высокая компетентность и мотивация)",
}

// LevelStyles are the recommended communication styles per level.
var LevelStyles = map[int]session.Style{
	1: {Style: "директивный + поддержка", Tone: "mentor", Pace: "упрощённый"},
	2: {Style: "коучинг (много поддержки)", Tone: "mentor", Pace: "упрощённый"},
	3: {Style: "поддерживающий партнёр", Tone: "partner", Pace: "обычный"},
	4: {Style: "делегирование", Tone: "partner", Pace: "ускоренный"},
}

type levelPool struct {
	phrases    []string
	challenges []string
}

var motivationLibrary = map[int]levelPool{
	1: {
		phrases: []string{
			"Отличное начало — шаг за шагом!",
			"Ты на верном пути, не переживай, что пока сложно.",
			"Важно, что ты пробуешь. Результат придёт.",
			"Сделаем это вместе, не спеша.",
			"Помни: каждая мелочь — это часть большого успеха!",
		},
		challenges: []string{
			"Попробуй сформулировать мысль одним предложением.",
			"Сделай маленький шаг — выбери одно ключевое слово.",
		},
	},
	2: {
		phrases: []string{
			"Я рядом, вместе справимся.",
			"Не сдавайся — иногда трудность значит, что ты растёшь.",
			"Ошибки — это часть процесса, всё идёт нормально.",
			"Подумай: что именно мешает? Мы это разберём.",
		},
		challenges: []string{
			"Сделай паузу и попробуй найти одно отличие в примере.",
			"Сравни с предыдущим шагом: что похоже, а что отличается?",
		},
	},
	3: {
		phrases: []string{
			"Очень хорошо идёшь — продолжай!",
			"Ты уже многое понял(а).",
			"Хорошо держишь темп, это радует.",
			"Отлично! Попробуй сам(а) объяснить кратко.",
		},
		challenges: []string{
			"Сравни своё решение с другим подходом.",
			"Попробуй объяснить задачу другу (в 2 предложениях).",
		},
	},
	4: {
		phrases: []string{
			"Ты действуешь уверенно — здорово!",
			"Самостоятельность — это круто.",
			"Супер, ты показываешь высокий уровень.",
			"Мне нравится твоя инициатива.",
		},
		challenges: []string{
			"Попробуй решить задачу за 1 минуту.",
			"Придумай свой пример и сравни с материалами.",
		},
	},
}

// ReflectionQuestions is the mini-reflection pool. The estimator never asks
// the same question twice in a row.
var ReflectionQuestions = []string{
	"Что тебе мешает двигаться дальше?",
	"Есть ли момент, который вызывает сомнение?",
	"Как думаешь, чего сейчас не хватает для уверенности?",
	"Хочешь, мы попробуем упростить задачу?",
}
