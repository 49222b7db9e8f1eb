package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jsamuelsen/kondate/internal/domain"
)

const optimizeSystemPrompt = `あなたは料理の専門家です。レシピの食材を調整する際に、味のバランスを保ちながら調整案を提案してください。

以下のルールに従ってください：
1. 食材の量を増やす際は、他の調味料や食材もバランスよく調整する
2. 全体の量が大幅に増えないよう配慮する
3. 味が薄くならないよう注意する
4. 実用的で現実的な調整案を提案する
5. 調整理由も簡潔に説明する

回答は以下のJSON形式で返してください：
{
  "adjustedIngredients": [
    {"ingredient": "材料名", "originalAmount": "元の量", "adjustedAmount": "調整後の量", "reason": "調整理由"}
  ],
  "cookingTips": ["調理のコツ1", "調理のコツ2"],
  "summary": "調整の概要説明"
}`

const improvementsSystemPrompt = `あなたは料理の専門家です。提供されたレシピを分析し、改善提案を行ってください。

分析する観点：
1. 栄養バランス
2. 調理効率
3. 味のバランス
4. 食材の代替案
5. 調理テクニック

回答は以下のJSON形式で返してください：
{
  "nutritionImprovements": ["栄養面での改善提案"],
  "cookingTips": ["調理テクニックの改善提案"],
  "ingredientAlternatives": [{"original": "元の食材", "alternative": "代替食材", "benefit": "メリット"}],
  "timeOptimization": ["時短のコツ"],
  "flavorEnhancements": ["味を良くする提案"]
}`

const chatSystemPromptTemplate = `あなたは経験豊富な料理の専門家です。ユーザーの料理に関する質問や相談に親切に答えてください。

現在のコンテキスト：
%s

回答の際は以下を心がけてください：
1. 具体的で実用的なアドバイスを提供する
2. 代替案がある場合は複数の選択肢を提示する
3. 安全性に関わる場合は必ず注意喚起する
4. 親しみやすく丁寧な口調で答える
5. 必要に応じて調理のコツや豆知識も含める

回答は%d文字以内で簡潔にまとめてください。`

func orUnknown(s, unknown string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}

	return s
}

func optimizeUserPrompt(recipe domain.RecipeDraft, changes []domain.QuantityChange) string {
	var b strings.Builder

	fmt.Fprintf(&b, "レシピ: %s\n元の材料リスト:\n", orUnknown(recipe.Name, "不明なレシピ"))
	for i, line := range recipe.Ingredients {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}

	b.WriteString("\n調整したい材料:\n")
	for _, c := range changes {
		fmt.Fprintf(&b, "- %s: %s → %s\n",
			orUnknown(c.Ingredient, "不明な材料"),
			orUnknown(c.CurrentAmount, "不明"),
			orUnknown(c.DesiredAmount, "不明"))
	}

	b.WriteString("\nこのレシピの味のバランスを保ちながら、指定された材料の調整に合わせて他の材料も適切に調整してください。")

	return b.String()
}

func chatSystemPrompt(recipe *domain.RecipeDraft) string {
	current := "- 現在特定のレシピは見ていません"
	if recipe != nil {
		ingredients := "不明"
		if len(recipe.Ingredients) > 0 {
			ingredients = strings.Join(recipe.Ingredients, ", ")
		}

		current = fmt.Sprintf("- 現在見ているレシピ: %s\n- 材料: %s\n- 調理時間: %s",
			recipe.Name, ingredients, orUnknown(recipe.CookingTime, "不明"))
	}

	return fmt.Sprintf(chatSystemPromptTemplate, current, ChatReplyLimit)
}

func improvementsUserPrompt(recipe domain.RecipeDraft, preferences map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "レシピ: %s\n", recipe.Name)
	fmt.Fprintf(&b, "材料: %s\n", strings.Join(recipe.Ingredients, ", "))
	fmt.Fprintf(&b, "調理時間: %s\n", orUnknown(recipe.CookingTime, "不明"))
	fmt.Fprintf(&b, "難易度: %s\n", orUnknown(recipe.Difficulty, "不明"))
	if len(recipe.Instructions) > 0 {
		fmt.Fprintf(&b, "作り方: %s\n", strings.Join(recipe.Instructions, " "))
	}

	b.WriteString("\nユーザーの好み:\n")
	if len(preferences) == 0 {
		b.WriteString("特になし\n")
	} else {
		keys := make([]string, 0, len(preferences))
		for k := range preferences {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, preferences[k])
		}
	}

	b.WriteString("\nこのレシピの改善提案をしてください。")

	return b.String()
}
