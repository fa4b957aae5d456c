// Package locale holds the screen's translation table. Languages and keys are
// fixed at build time.
package locale

type Lang string

const (
	EN Lang = "en"
	RU Lang = "ru"
	UK Lang = "uk"
)

const Default = EN

// Languages in selector order.
var Languages = []Lang{EN, RU, UK}

var labels = map[Lang]string{
	EN: "🇬🇧 EN",
	RU: "🇷🇺 RU",
	UK: "🇺🇦 UK",
}

var translations = map[Lang]map[string]string{
	EN: {
		"welcome":           "Welcome Back",
		"total_balance":     "Total Portfolio Balance",
		"top_up":            "Top Up",
		"copy_trading":      "Copy Trading",
		"active_strategies": "Active Strategies",
		"my_exchanges":      "My Exchanges",
		"connect_new":       "Connect New Exchange",
		"profile":           "Settings",
		"language":          "Language",
		"user_id":           "User ID",
		"credits":           "Aladdin Credits",
		"home":              "Home",
		"exchanges":         "Exchanges",
		"settings":          "Settings",
		"no_exchanges":      "No exchanges connected",
		"no_active":         "No active strategies",

		"wiz_title":         "Setup Copy Trading",
		"wiz_step1":         "Select Strategy",
		"wiz_step2":         "Select Exchange",
		"wiz_step3":         "Connection Details",
		"strat_ratner":      "Bro-Bot (Futures)",
		"strat_ratner_desc": "Binance, Bybit, etc.",
		"strat_cgt":         "TradeMax (Spot)",
		"strat_cgt_desc":    "OKX Only",
		"btn_next":          "Next",
		"btn_connect":       "Connect",
		"success":           "Connected Successfully!",
		"reserve_title":     "Set Reserve Amount",
		"reserve_desc":      "Amount to keep in USDT (not used for trading).",
		"save":              "Save",

		"topup_title": "Top Up Credits",
		"topup_desc":  "Credits are used for performance fees (40% of profit).",
		"pay":         "Pay",
	},
	RU: {
		"welcome":           "С возвращением",
		"total_balance":     "Общий Баланс",
		"top_up":            "Пополнить",
		"copy_trading":      "Копитрейдинг",
		"active_strategies": "Активные Стратегии",
		"my_exchanges":      "Мои Биржи",
		"connect_new":       "Подключить Биржу",
		"profile":           "Настройки",
		"language":          "Язык",
		"user_id":           "ID Пользователя",
		"credits":           "Кредиты Aladdin",
		"home":              "Главная",
		"exchanges":         "Биржи",
		"settings":          "Настройки",
		"no_exchanges":      "Нет подключенных бирж",
		"no_active":         "Нет активных стратегий",

		"wiz_title":         "Настройка Копитрейдинга",
		"wiz_step1":         "Выберите Стратегию",
		"wiz_step2":         "Выберите Биржу",
		"wiz_step3":         "Детали Подключения",
		"strat_ratner":      "Bro-Bot (Фьючерсы)",
		"strat_ratner_desc": "Binance, Bybit и др.",
		"strat_cgt":         "TradeMax (Спот)",
		"strat_cgt_desc":    "Только OKX",
		"btn_next":          "Далее",
		"btn_connect":       "Подключить",
		"success":           "Успешно подключено!",
		"reserve_title":     "Настроить Резерв",
		"reserve_desc":      "Сумма в USDT, которая Не торгуется.",
		"save":              "Сохранить",

		"topup_title": "Пополнить Кредиты",
		"topup_desc":  "Кредиты используются для оплаты комиссии (40% от прибыли).",
		"pay":         "Оплатить",
	},
	UK: {
		"welcome":           "З поверненням",
		"total_balance":     "Загальний Баланс",
		"top_up":            "Поповнити",
		"copy_trading":      "Копітрейдинг",
		"active_strategies": "Активні Стратегії",
		"my_exchanges":      "Мої Біржі",
		"connect_new":       "Підключити Біржу",
		"profile":           "Налаштування",
		"language":          "Мова",
		"user_id":           "ID Користувача",
		"credits":           "Кредити Aladdin",
		"home":              "Головна",
		"exchanges":         "Биржі",
		"settings":          "Налаштування",
		"no_exchanges":      "Немає підключених бірж",
		"no_active":         "Немає активних стратегій",

		"wiz_title":         "Налаштування Копітрейдингу",
		"wiz_step1":         "Оберіть Стратегію",
		"wiz_step2":         "Оберіть Біржу",
		"wiz_step3":         "Деталі Підключення",
		"strat_ratner":      "Bro-Bot (Ф'ючерси)",
		"strat_ratner_desc": "Binance, Bybit та ін.",
		"strat_cgt":         "TradeMax (Спот)",
		"strat_cgt_desc":    "Тільки OKX",
		"btn_next":          "Далі",
		"btn_connect":       "Підключити",
		"success":           "Успішно підключено!",
		"reserve_title":     "Налаштувати Резерв",
		"reserve_desc":      "Сума в USDT, яка Не торгується.",
		"save":              "Зберегти",

		"topup_title": "Поповнити Кредити",
		"topup_desc":  "Кредити використовуються для оплати комісії (40% від прибутку).",
		"pay":         "Сплатити",
	},
}

func Supported(code string) bool {
	_, ok := translations[Lang(code)]
	return ok
}

// Parse returns the language for code, or false when it is not supported.
func Parse(code string) (Lang, bool) {
	if !Supported(code) {
		return "", false
	}
	return Lang(code), true
}

// Text returns the string for key in lang. Unknown keys yield "" and callers
// keep their untranslated text.
func Text(lang Lang, key string) string {
	return translations[lang][key]
}

func Label(lang Lang) string {
	return labels[lang]
}

func Keys(lang Lang) []string {
	keys := make([]string, 0, len(translations[lang]))
	for key := range translations[lang] {
		keys = append(keys, key)
	}
	return keys
}
