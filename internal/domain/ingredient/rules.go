package ingredient

// overrideRules run before the category tables for names that contain a
// keyword of the wrong category.
var overrideRules = []Rule{
	{Keyword: "鶏ガラ", Category: Seasoning},
	{Keyword: "牛乳", Category: Other},
}

var meatKeywords = []string{
	"豚", "牛", "鶏", "肉", "ひき肉", "ミンチ", "ベーコン", "ハム", "ソーセージ", "ウインナー",
	"ささみ", "手羽", "レバー", "チャーシュー",
}

var vegetableKeywords = []string{
	"玉ねぎ", "たまねぎ", "ねぎ", "人参", "にんじん", "じゃがいも", "さつまいも", "里芋", "キャベツ",
	"白菜", "レタス", "ほうれん草", "小松菜", "もやし", "ピーマン", "パプリカ", "なす", "茄子",
	"トマト", "きゅうり", "大根", "ごぼう", "れんこん", "ブロッコリー", "かぼちゃ", "アスパラ",
	"きのこ", "しいたけ", "しめじ", "えのき", "まいたけ", "エリンギ", "ニラ", "セロリ", "オクラ",
	"ズッキーニ", "とうもろこし", "コーン", "枝豆", "水菜", "春菊", "青じそ", "大葉",
}

// seasoningKeywords is checked after vegetables, so "にんにく" and "しょうが"
// only reach this table because no vegetable keyword contains them.
var seasoningKeywords = []string{
	"しょうゆ", "醤油", "みそ", "味噌", "みりん", "砂糖", "塩", "こしょう", "胡椒", "酢",
	"油", "サラダ油", "オリーブオイル", "ごま油", "ソース", "ケチャップ", "マヨネーズ",
	"ドレッシング", "バター", "酒", "料理酒", "ワイン", "マスタード", "からし", "わさび",
	"にんにく", "しょうが", "生姜", "スパイス", "カレー粉", "片栗粉", "薄力粉", "小麦粉",
	"パン粉", "ゼラチン", "だし", "出汁", "コンソメ", "豆板醤", "コチュジャン",
	"オイスターソース", "ポン酢", "めんつゆ", "ナンプラー", "はちみつ",
}

// DefaultRules returns the built-in rule table: overrides, meat, then
// vegetables, then seasonings. Callers may prepend their own rules to
// override it.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(overrideRules)+len(meatKeywords)+len(vegetableKeywords)+len(seasoningKeywords))
	rules = append(rules, overrideRules...)
	rules = appendRules(rules, meatKeywords, Meat)
	rules = appendRules(rules, vegetableKeywords, Vegetable)
	rules = appendRules(rules, seasoningKeywords, Seasoning)

	return rules
}

func appendRules(rules []Rule, keywords []string, category Category) []Rule {
	for _, kw := range keywords {
		rules = append(rules, Rule{Keyword: kw, Category: category})
	}

	return rules
}

// NewDefaultCategorizer returns a categorizer using DefaultRules.
func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultRules())
}
