package knowledge

// Russian stop words excluded from indexing. A compact subset of the usual
// corpus list plus the course-specific additions.
var stopwords = map[string]bool{
	"и": true, "в": true, "во": true, "не": true, "что": true,
	"он": true, "на": true, "я": true, "с": true, "со": true,
	"как": true, "а": true, "то": true, "все": true, "она": true,
	"так": true, "его": true, "но": true, "да": true, "ты": true,
	"к": true, "у": true, "же": true, "вы": true, "за": true,
	"бы": true, "по": true, "только": true, "ее": true, "мне": true,
	"было": true, "вот": true, "от": true, "меня": true, "еще": true,
	"нет": true, "о": true, "из": true, "ему": true, "теперь": true,
	"когда": true, "даже": true, "ну": true, "вдруг": true, "ли": true,
	"если": true, "уже": true, "или": true, "ни": true, "быть": true,
	"был": true, "него": true, "до": true, "вас": true, "нибудь": true,
	"опять": true, "уж": true, "вам": true, "ведь": true, "там": true,
	"потом": true, "себя": true, "ничего": true, "ей": true, "может": true,
	"они": true, "тут": true, "где": true, "есть": true, "надо": true,
	"ней": true, "для": true, "мы": true, "тебя": true, "их": true,
	"чем": true, "была": true, "сам": true, "чтоб": true, "без": true,
	"будто": true, "чего": true, "раз": true, "тоже": true, "себе": true,
	"под": true, "будет": true, "тогда": true, "кто": true, "этот": true,
	"это": true, "нею": true,
}
