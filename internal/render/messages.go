package render

type Lang string

const (
	English Lang = "en"
	Arabic  Lang = "ar"
)

// ParseLang maps a config or flag value to a supported language, defaulting to English.
func ParseLang(s string) Lang {
	if Lang(s) == Arabic {
		return Arabic
	}
	return English
}

type messages struct {
	Unsupported     string // format verb receives the block type
	InvalidVideo    string
	InvalidImage    string
	Submit          string
	Retry           string
	ShowHint        string
	HideHint        string
	Correct         string
	Incorrect       string
	Explanation     string
	FlagPlaceholder string
	Tip             string
	Info            string
	Warning         string
}

var catalog = map[Lang]messages{
	English: {
		Unsupported:     "Unsupported block type: %s",
		InvalidVideo:    "Invalid video URL",
		InvalidImage:    "Invalid image URL",
		Submit:          "Submit",
		Retry:           "Try again",
		ShowHint:        "Show hint",
		HideHint:        "Hide hint",
		Correct:         "Correct!",
		Incorrect:       "Incorrect, try again.",
		Explanation:     "Explanation",
		FlagPlaceholder: "Enter the flag",
		Tip:             "Tip",
		Info:            "Info",
		Warning:         "Warning",
	},
	Arabic: {
		Unsupported:     "نوع كتلة غير مدعوم: %s",
		InvalidVideo:    "رابط فيديو غير صالح",
		InvalidImage:    "رابط صورة غير صالح",
		Submit:          "إرسال",
		Retry:           "حاول مرة أخرى",
		ShowHint:        "إظهار التلميح",
		HideHint:        "إخفاء التلميح",
		Correct:         "إجابة صحيحة!",
		Incorrect:       "إجابة خاطئة، حاول مرة أخرى.",
		Explanation:     "الشرح",
		FlagPlaceholder: "أدخل العلم",
		Tip:             "نصيحة",
		Info:            "معلومة",
		Warning:         "تحذير",
	},
}

func (l Lang) messages() messages {
	if m, ok := catalog[l]; ok {
		return m
	}
	return catalog[English]
}
