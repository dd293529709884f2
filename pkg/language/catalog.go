package language

import "strings"

// Code is a canonical language identifier (e.g. "zh-TW", "en").
// The set of codes is fixed and enumerable; every code carries a display
// name and per-provider translation codes.
type Code string

// Canonical codes for the supported languages.
const (
	ZhTW Code = "zh-TW"
	ZhCN Code = "zh-CN"
	EN   Code = "en"
	JA   Code = "ja"
	KO   Code = "ko"
	ES   Code = "es"
	FR   Code = "fr"
	DE   Code = "de"
	IT   Code = "it"
	PT   Code = "pt"
	RU   Code = "ru"
	NL   Code = "nl"
	PL   Code = "pl"
	TH   Code = "th"
	VI   Code = "vi"
	ID   Code = "id"
	HI   Code = "hi"
	AR   Code = "ar"
	HE   Code = "he"
	TR   Code = "tr"
)

// Info describes one supported language.
type Info struct {
	// Code is the canonical identifier.
	Code Code
	// Name is the user-facing display name (Traditional Chinese, the
	// bot's audience language).
	Name string
	// Google is the code the Google Cloud Translation API expects.
	Google string
	// DeepL is the code the DeepL API expects. Empty means DeepL does
	// not support this language.
	DeepL string
}

// registry holds every supported language keyed by canonical code.
// ordered preserves a stable listing order for user-facing output.
var (
	ordered = []Code{
		ZhTW, ZhCN, EN, JA, KO, ES, FR, DE, IT, PT,
		RU, NL, PL, TH, VI, ID, HI, AR, HE, TR,
	}

	registry = map[Code]Info{
		ZhTW: {Code: ZhTW, Name: "繁體中文", Google: "zh-TW", DeepL: "ZH"},
		ZhCN: {Code: ZhCN, Name: "簡體中文", Google: "zh-CN", DeepL: "ZH"},
		EN:   {Code: EN, Name: "英文", Google: "en", DeepL: "EN"},
		JA:   {Code: JA, Name: "日文", Google: "ja", DeepL: "JA"},
		KO:   {Code: KO, Name: "韓文", Google: "ko", DeepL: "KO"},
		ES:   {Code: ES, Name: "西班牙文", Google: "es", DeepL: "ES"},
		FR:   {Code: FR, Name: "法文", Google: "fr", DeepL: "FR"},
		DE:   {Code: DE, Name: "德文", Google: "de", DeepL: "DE"},
		IT:   {Code: IT, Name: "義大利文", Google: "it", DeepL: "IT"},
		PT:   {Code: PT, Name: "葡萄牙文", Google: "pt", DeepL: "PT"},
		RU:   {Code: RU, Name: "俄文", Google: "ru", DeepL: "RU"},
		NL:   {Code: NL, Name: "荷蘭文", Google: "nl", DeepL: "NL"},
		PL:   {Code: PL, Name: "波蘭文", Google: "pl", DeepL: "PL"},
		TH:   {Code: TH, Name: "泰文", Google: "th"},
		VI:   {Code: VI, Name: "越南文", Google: "vi"},
		ID:   {Code: ID, Name: "印尼文", Google: "id", DeepL: "ID"},
		HI:   {Code: HI, Name: "印地文", Google: "hi"},
		AR:   {Code: AR, Name: "阿拉伯文", Google: "ar", DeepL: "AR"},
		HE:   {Code: HE, Name: "希伯來文", Google: "he"},
		TR:   {Code: TR, Name: "土耳其文", Google: "tr", DeepL: "TR"},
	}

	// aliases maps free-text synonyms to canonical codes. Chinese
	// synonyms match the bot's command vocabulary; lowercase entries are
	// matched case-insensitively.
	aliases = map[string]Code{
		"中文": ZhTW, "繁中": ZhTW, "繁體": ZhTW, "台灣": ZhTW,
		"簡中": ZhCN, "簡體": ZhCN, "中國": ZhCN,
		"英文": EN, "英語": EN, "英": EN,
		"日文": JA, "日語": JA, "日本": JA, "日": JA,
		"韓文": KO, "韓語": KO, "韓國": KO, "韓": KO,
		"西班牙文": ES, "西語": ES, "西": ES,
		"法文": FR, "法語": FR, "法": FR,
		"德文": DE, "德語": DE, "德": DE,
		"義大利文": IT, "義語": IT,
		"葡萄牙文": PT, "葡語": PT,
		"俄文": RU, "俄語": RU,
		"荷蘭文": NL, "波蘭文": PL,
		"泰文": TH, "泰語": TH, "泰": TH,
		"越南文": VI, "越語": VI, "越": VI,
		"印尼文": ID, "印地文": HI,
		"阿拉伯文": AR, "阿語": AR,
		"希伯來文": HE,
		"土耳其文": TR,
	}

	// european is the fixed subset for which the DeepL specialist is
	// preferred by the router. Membership is by canonical code.
	european = map[Code]bool{
		EN: true, FR: true, DE: true, ES: true, IT: true,
		PT: true, NL: true, PL: true, RU: true,
	}
)

// Resolve maps free-text user input (a synonym, a display name, or a
// canonical code in any case) to a canonical Code. The second return is
// false when the input names no supported language.
func Resolve(input string) (Code, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}
	if code, ok := aliases[s]; ok {
		return code, true
	}
	// Canonical codes are matched case-insensitively ("ZH-TW", "En").
	lower := strings.ToLower(s)
	for code := range registry {
		if strings.ToLower(string(code)) == lower {
			return code, true
		}
	}
	return "", false
}

// Known reports whether code is a supported canonical code.
func Known(code Code) bool {
	_, ok := registry[code]
	return ok
}

// DisplayName returns the user-facing name for a code, or the code
// itself when unknown.
func DisplayName(code Code) string {
	if info, ok := registry[code]; ok {
		return info.Name
	}
	return string(code)
}

// GoogleCode returns the code the Google Cloud Translation API expects.
// Unknown codes pass through unchanged.
func GoogleCode(code Code) string {
	if info, ok := registry[code]; ok {
		return info.Google
	}
	return string(code)
}

// DeepLCode returns the code the DeepL API expects. The second return
// is false when DeepL does not support the language.
func DeepLCode(code Code) (string, bool) {
	info, ok := registry[code]
	if !ok || info.DeepL == "" {
		return "", false
	}
	return info.DeepL, true
}

// IsEuropean reports whether code belongs to the fixed European subset
// preferred by the DeepL specialist.
func IsEuropean(code Code) bool {
	return european[code]
}

// All returns every supported language in stable listing order.
func All() []Info {
	out := make([]Info, 0, len(ordered))
	for _, code := range ordered {
		out = append(out, registry[code])
	}
	return out
}
