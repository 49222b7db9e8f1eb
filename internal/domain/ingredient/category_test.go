package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategorizer(t *testing.T) {
	c := NewDefaultCategorizer()

	tests := []struct {
		name string
		want Category
	}{
		{"豚バラ肉", Meat},
		{"鶏もも肉", Meat},
		{"ベーコン", Meat},
		{"玉ねぎ", Vegetable},
		{"じゃがいも", Vegetable},
		{"ｷｬﾍﾞﾂ", Vegetable},
		{"醤油", Seasoning},
		{"サラダ油", Seasoning},
		{"にんにく", Seasoning},
		{"鶏ガラスープの素", Seasoning},
		{"牛乳", Other},
		{"牛こま切れ肉", Meat},
		{"キヌア", Other},
		{"", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.name))
		})
	}
}

func TestCategorizer_FirstRuleWins(t *testing.T) {
	c := NewCategorizer([]Rule{
		{Keyword: "ソース", Category: Seasoning},
		{Keyword: "トマト", Category: Vegetable},
	})

	assert.Equal(t, Seasoning, c.Categorize("トマトソース"))
	assert.Equal(t, Vegetable, c.Categorize("ミニトマト"))
}

func TestCategorizer_InjectedFixture(t *testing.T) {
	c := NewCategorizer([]Rule{
		{Keyword: "Tofu", Category: Other},
		{Keyword: "  ", Category: Meat},
	})

	assert.Equal(t, Other, c.Categorize("silken TOFU"))
	assert.Equal(t, Other, c.Categorize("豚肉"), "default table is not consulted")
	assert.Len(t, c.Rules(), 1, "blank keywords are dropped")
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "肉類", Meat.Label())
	assert.Equal(t, "野菜", Vegetable.Label())
	assert.Equal(t, "調味料", Seasoning.Label())
	assert.Equal(t, "その他", Other.Label())
	assert.Equal(t, "その他", Category("unknown").Label())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "abc123", Normalize(" ＡＢＣ１２３ "))
	assert.Equal(t, "キャベツ", Normalize("ｷｬﾍﾞﾂ"))
}
