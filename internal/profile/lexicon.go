package profile

// Lexicon bundles every static word table used by the signal extractors and
// the gender classifier. It is versioned data, loaded once at startup, so
// tests can substitute a small fixture without touching classifier logic.
type Lexicon struct {
	Version string

	PositiveWords []string
	NegativeWords []string
	ToxicMarkers  []string
	HumorMarkers  []string
	SlangWords    []string

	// MatPatterns are profanity-root regular expressions.
	MatPatterns []string

	// Topics maps a category id to its keyword list. A category is detected
	// when any keyword is contained in the message.
	Topics map[string][]string

	// TriggerTopics maps an emotional-trigger group to its keyword list.
	TriggerTopics map[string][]string

	// DiscourseMarkers open sentences that qualify as catchphrase candidates.
	DiscourseMarkers []string

	// Gender marker tables. Verb endings weigh 3, adjectives 2,
	// self-identifying phrases 10.
	FemaleVerbMarkers  []string
	FemaleAdjMarkers   []string
	FemaleSelfPhrases  []string
	MaleVerbMarkers    []string
	MaleAdjMarkers     []string
	MaleSelfPhrases    []string
	FemaleNames        []string
	MaleNamesEndingInA []string
}

// DefaultLexicon returns the production word tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Version: "v2",

		PositiveWords: []string{
			"спасибо", "класс", "круто", "супер", "отлично", "люблю", "нравится",
			"рад", "красив", "молодец", "топ", "обожаю", "кайф", "прекрасно",
			"хорошо", "ура", "лучший", "приятно", "милота", "респект", "шикарно",
		},
		NegativeWords: []string{
			"ненавижу", "бесит", "плохо", "ужас", "отстой", "достал", "надоел",
			"злюсь", "грустно", "печаль", "мерзко", "кошмар", "раздража",
			"разочаров", "обидно", "хреново", "тошнит", "скучно", "устал",
		},
		ToxicMarkers: []string{
			"тупой", "дебил", "идиот", "заткнись", "отвали", "лох", "ничтожество",
			"урод", "мразь", "козел", "дурак", "придурок", "кретин", "бестолочь",
		},
		HumorMarkers: []string{
			"ахах", "хаха", "лол", "кек", "ржу", "смешно", "умора", "рофл",
			"угар", "хех", "))", "xd",
		},
		SlangWords: []string{
			"кринж", "краш", "рофл", "чилл", "вайб", "изи", "жиза", "зашквар",
			"агрит", "хайп", "треш", "имба", "душнила", "база", "бомбит",
			"флексить", "токс", "шарит", "сасный", "падра",
		},

		MatPatterns: []string{
			`ху[йеёи]`, `бля`, `пизд`, `[её]бан`, `[её]бат`, `сук[аи]`,
			`муда[кч]`, `гандон`, `долбо[её]б`, `залуп`, `манда`, `хер`,
		},

		Topics: map[string][]string{
			"политика": {"политик", "выбор", "власть", "закон", "госдум", "президент", "митинг", "санкци", "депутат"},
			"деньги":   {"деньг", "зарплат", "рубл", "доллар", "кредит", "ипотек", "бабк", "бюджет", "крипт", "инвест"},
			"работа":   {"работ", "началь", "офис", "проект", "дедлайн", "собеседован", "увольн", "коллег", "смен"},
			"спорт":    {"спорт", "футбол", "хоккей", "трениров", "зал", "матч", "качал", "пробежк"},
			"игры":     {"игра", "игру", "игры", "дотк", "дота", "катк", "геймер", "стим", "консол", "пс5", "шутер"},
			"еда":      {"еда", "кушать", "жрать", "пицц", "суши", "шашлык", "готовит", "рецепт", "вкусн", "кофе"},
			"технологии": {"телефон", "айфон", "компьютер", "программ", "интернет", "гаджет", "андроид", "нейросет", "технолог"},
			"музыка":   {"музык", "песн", "концерт", "трек", "альбом", "плейлист", "гитар", "рэп"},
			"кино":     {"фильм", "кино", "сериал", "нетфликс", "актер", "актёр", "трейлер", "премьер"},
			"путешествия": {"путешеств", "отпуск", "море", "билет", "отель", "виза", "поездк", "курорт"},
			"авто":     {"машин", "авто", "бензин", "тачк", "водител", "гаишник", "руль", "пробк"},
			"отношения": {"отношен", "любов", "свидан", "девушк", "парн", "расста", "женить", "свадьб"},
			"здоровье": {"здоров", "болит", "врач", "больниц", "таблетк", "температур", "простуд", "диет"},
			"мода":     {"одежд", "шмот", "кроссовк", "стиль", "бренд", "шоппинг", "платье", "образ"},
		},

		TriggerTopics: map[string][]string{
			"политика":   {"политик", "власть", "президент", "выбор", "митинг"},
			"деньги":     {"деньг", "долг", "кредит", "зарплат", "ипотек", "бедн", "богат"},
			"работа":     {"работ", "началь", "дедлайн", "увольн", "офис"},
			"отношения":  {"отношен", "бывш", "расста", "любов", "измен"},
			"семья":      {"семь", "мама", "папа", "родител", "тёщ", "брат", "сестр"},
			"здоровье":   {"здоров", "болезн", "болит", "врач", "диет"},
			"внешность":  {"внешн", "толст", "худ", "страшн", "красот", "причёск", "вес"},
			"возраст":    {"возраст", "стар", "молод", "годик", "лет тебе"},
		},

		DiscourseMarkers: []string{
			"короче", "типа", "честно", "кстати", "слушай", "вообще",
			"по факту", "реально", "блин",
		},

		FemaleVerbMarkers: []string{
			"была", "сделала", "пошла", "сказала", "думала", "хотела", "могла",
			"устала", "пришла", "поняла", "видела", "купила", "решила", "забыла",
		},
		FemaleAdjMarkers: []string{
			"сама", "рада", "готова", "уверена", "довольна", "согласна",
			"занята", "должна", "счастлива",
		},
		FemaleSelfPhrases: []string{
			"я девушка", "я женщина", "я девочка", "я жена", "я мама", "я беременна",
		},
		MaleVerbMarkers: []string{
			"был", "сделал", "пошел", "пошёл", "сказал", "думал", "хотел", "мог",
			"устал", "пришел", "пришёл", "понял", "видел", "купил", "решил", "забыл",
		},
		MaleAdjMarkers: []string{
			"сам", "рад", "готов", "уверен", "доволен", "согласен",
			"занят", "должен", "счастлив",
		},
		MaleSelfPhrases: []string{
			"я парень", "я мужик", "я мужчина", "я муж", "я папа", "я пацан",
		},
		FemaleNames: []string{
			"анна", "мария", "елена", "ольга", "наталья", "ирина", "светлана",
			"екатерина", "татьяна", "юлия", "алина", "дарья", "ксения",
			"анастасия", "настя", "вера", "надежда", "полина", "софия", "катя",
			"лена", "оля", "маша", "даша", "юля", "таня", "ира", "аня",
		},
		MaleNamesEndingInA: []string{
			"никита", "илья", "фома", "кузьма", "лука", "савва", "миша", "саша",
			"паша", "гоша", "лёша", "леша", "дима", "коля", "ваня", "петя",
			"витя", "костя", "толя", "серёжа", "сережа", "жора", "стёпа", "степа",
		},
	}
}
