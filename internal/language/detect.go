package language

import (
	"regexp"
	"strings"
	"unicode"
)

// simplifiedOnly holds simplified Chinese characters that do not occur in
// modern Japanese. Characters shared with shinjitai (会, 学, 来, 体) stay out.
const simplifiedOnly = "这们说为时过对发还么样问题让给长东车开关见门马鸟鱼书买卖读语话认识爱" +
	"强谢请欢应该现经进边动场两乐电脑戏赢输队级战伤击怎谁哪钱儿头间实吗" +
	"丢办县师际陆结绝续罗贝负账货质购赶趋软轮辆辑选递逻错键"

const japanesePunct = "『』「」、・"

// chinesePunct leaves out “”‘’… since English text uses them too
const chinesePunct = "，。！？；：（）《》【】〈〉〔〕～"

// Chinese grammar and function-word patterns; checked before the Japanese
// word list and win when both fire.
var chinesePatterns = []*regexp.Regexp{
	regexp.MustCompile(`在(做|看|玩|吃|说|想|写|听|打|学|等|干|忙|睡|工作|家|哪)`),
	regexp.MustCompile(`会(不会|说|做|去|来|有|是|玩|打|写|用|开|下雨)`),
	regexp.MustCompile(`或者`),
	regexp.MustCompile(`[吗呢啊吧]\s*$`),
	regexp.MustCompile(`的`),
	regexp.MustCompile(`了([^解]|$)`),
	regexp.MustCompile(`(我们|你们|他们|什么|怎么|为什么|可以|因为|所以|但是|已经|还是|就是|没有|不是|这个|那个|一起|现在)`),
	regexp.MustCompile(`[你她]`),
}

// Japanese place names and common words written only in kanji.
var japaneseWords = []string{
	"東京", "大阪", "京都", "日本", "北海道", "沖縄", "名古屋", "横浜", "神戸",
	"福岡", "新宿", "渋谷", "秋葉原", "今日", "明日", "昨日", "本当", "大丈夫",
	"勉強", "写真", "仕事", "手紙", "切手", "景色", "部屋", "電車", "駅", "円",
	"様", "了解", "頑張",
}

// Detect classifies text as Japanese, Chinese or Unknown using script and
// punctuation features. The rule order encodes tuning for short chat
// messages and must not be rearranged.
func Detect(text string) Code {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	if HasKana(text) {
		return Japanese
	}
	if strings.ContainsAny(text, simplifiedOnly) {
		return Chinese
	}
	if strings.ContainsAny(text, japanesePunct) {
		return Japanese
	}
	if strings.ContainsAny(text, chinesePunct) {
		return Chinese
	}
	if HasHan(text) {
		return detectByPattern(text)
	}

	return Unknown
}

// detectByPattern disambiguates bare ideographs. Chinese patterns win ties
// and bare hanzi with no signal default to Chinese.
func detectByPattern(text string) Code {
	for _, re := range chinesePatterns {
		if re.MatchString(text) {
			return Chinese
		}
	}
	for _, w := range japaneseWords {
		if strings.Contains(text, w) {
			return Japanese
		}
	}
	return Chinese
}

// HasKana reports whether text contains hiragana or katakana
func HasKana(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}

// HasHan reports whether text contains a Han ideograph
func HasHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// HasChinesePunct reports whether text contains Chinese full-width punctuation
func HasChinesePunct(text string) bool {
	return strings.ContainsAny(text, chinesePunct)
}

// HasCJK reports whether text contains any kana or Han character
func HasCJK(text string) bool {
	return HasKana(text) || HasHan(text)
}
