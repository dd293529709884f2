package service

import (
	"fmt"
	"strings"

	"github.com/wanderlab/kotoba/pkg/language"
	"github.com/wanderlab/kotoba/pkg/session"
)

// Canned user-facing replies. Terminal failures are always translated
// into one of these; vendor error text never reaches the user.

const welcomeReply = `🌏 歡迎使用【旅遊~即時翻譯】！

直接輸入文字就能翻譯喔！
預設：中文 ➜ 英文

📖 指令說明：
/語言 - 查看 20 種支援語言
/設定 中文 日文 - 更改翻譯方向
/交換 - 交換翻譯語言
/說明 - 顯示使用說明

🎤 也可以傳送語音訊息翻譯！

祝您旅途愉快！✈️`

const helpReply = `📖【旅遊~即時翻譯】使用說明

💬 文字翻譯：
直接輸入文字即可自動翻譯！
系統會自動偵測語言方向

🎤 語音翻譯：
傳送語音訊息即可

⚙️ 指令列表：
/語言 - 查看 20 種支援語言
/設定 中文 日文 - 設定翻譯方向
/交換 - 交換翻譯方向
/說明 - 顯示此說明

💡 小技巧：
雙向自動偵測，說中文翻成目標語言，
說目標語言翻回中文！`

const setPairUsageReply = `📝 設定格式：/設定 來源語言 目標語言

範例：
/設定 中文 日文
/設定 中文 韓文
/設定 英文 中文`

const samePairReply = `❌ 來源語言和目標語言不能相同

請選擇兩種不同的語言，例如：
/設定 中文 日文`

const translationFailedReply = "❌ 翻譯失敗，請稍後再試"

const voiceUnavailableReply = `🎤 語音翻譯功能未啟用

請先用文字輸入！`

const voiceNotRecognizedReply = `🎤 無法辨識語音內容

請再試一次，說話時請靠近麥克風`

const voiceFailedReply = `❌ 語音辨識失敗

請再試一次或改用文字輸入`

const phrasebookReply = `💬 旅遊常用句

【打招呼】
你好 / Hello / こんにちは / 안녕하세요

【問路】
請問...在哪裡？
這裡離...有多遠？
我迷路了

【用餐】
請給我菜單
這個多少錢？
很好吃！/ 結帳

【購物】
可以便宜一點嗎？
可以刷卡嗎？
我要這個

【緊急】
請幫助我
我需要醫生
請叫警察

💡 直接輸入任何句子即可翻譯！`

const languageListReply = `🌏 支援的 20 種語言：

亞洲語系：
🇹🇼 繁中 | 🇨🇳 簡中 | 🇯🇵 日文
🇰🇷 韓文 | 🇹🇭 泰文 | 🇻🇳 越南文
🇮🇩 印尼文 | 🇮🇳 印地文

歐洲語系：
🇺🇸 英文 | 🇪🇸 西班牙文 | 🇫🇷 法文
🇩🇪 德文 | 🇮🇹 義大利文 | 🇵🇹 葡萄牙文
🇷🇺 俄文 | 🇳🇱 荷蘭文 | 🇵🇱 波蘭文

其他：
🇸🇦 阿拉伯文 | 🇮🇱 希伯來文 | 🇹🇷 土耳其文`

func notFoundReply(index int) string {
	return fmt.Sprintf("❌ 找不到第 %d 筆記錄\n\n輸入「翻譯歷史」查看記錄", index)
}

func pairSwitchedReply(pair session.Pair) string {
	return fmt.Sprintf("✅ 已切換語言\n\n%s ↔️ %s\n\n現在可以開始翻譯了！",
		language.DisplayName(pair.From), language.DisplayName(pair.To))
}

func pairSetReply(pair session.Pair) string {
	return fmt.Sprintf("✅ 翻譯方向已設定！\n%s ➜ %s",
		language.DisplayName(pair.From), language.DisplayName(pair.To))
}

func pairSwappedReply(pair session.Pair) string {
	return fmt.Sprintf("🔄 翻譯方向已交換！\n%s ➜ %s",
		language.DisplayName(pair.From), language.DisplayName(pair.To))
}

func unknownLanguageReply(token string) string {
	return fmt.Sprintf("❌ 不認識的語言「%s」\n\n輸入 /語言 查看支援的語言", token)
}

func voiceModeReply(enabled bool, pair session.Pair) string {
	fromName := language.DisplayName(pair.From)
	toName := language.DisplayName(pair.To)
	if enabled {
		return fmt.Sprintf(`🎤 語音翻譯模式

✅ 語音翻譯已啟用！

直接按住麥克風錄音傳送，我會：
1. 辨識你說的話
2. 自動翻譯成目標語言

目前設定：%s ↔️ %s

💡 支援中、英、日、韓、泰、越等多國語言`, fromName, toName)
	}
	return fmt.Sprintf(`🎤 語音翻譯功能

目前未啟用語音辨識。

直接在這裡輸入文字，我會幫你翻譯！

目前設定：%s ↔️ %s`, fromName, toName)
}

func textModeReply(pair session.Pair) string {
	return fmt.Sprintf(`⌨️ 文字翻譯模式

目前設定：%s ↔️ %s

直接輸入任何文字，我會自動偵測並翻譯！

💡 例如輸入「你好」或「Hello」試試`,
		language.DisplayName(pair.From), language.DisplayName(pair.To))
}

func switchMenuReply(pair session.Pair) string {
	return fmt.Sprintf(`🌏 切換語言

目前：%s ↔️ %s

快速切換（直接輸入）：
• 中英 → 中文↔英文
• 中日 → 中文↔日文
• 中韓 → 中文↔韓文
• 中泰 → 中文↔泰文
• 中越 → 中文↔越南文
• 中法 → 中文↔法文
• 英日 → 英文↔日文

或用指令：/設定 中文 日文`,
		language.DisplayName(pair.From), language.DisplayName(pair.To))
}

const emptyHistoryReply = `📜 翻譯歷史

還沒有翻譯記錄

開始翻譯後，記錄會顯示在這裡！
輸入「重播 1」可重播第 1 筆翻譯的語音`

// historyListReply renders the most recent records, truncating long
// texts the way a chat bubble expects.
func historyListReply(records []session.Record) string {
	var b strings.Builder
	b.WriteString("📜 翻譯歷史（最近 10 筆）\n\n")

	limit := len(records)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rec := records[i]
		icon := "⌨️"
		if rec.Modality == session.ModalityVoice {
			icon = "🎤"
		}
		fmt.Fprintf(&b, "%d. %s %s→%s\n", i+1, icon,
			language.DisplayName(rec.From), language.DisplayName(rec.To))
		fmt.Fprintf(&b, "   %s\n", truncateRunes(rec.Original, 20))
		fmt.Fprintf(&b, "   → %s\n\n", truncateRunes(rec.Translated, 20))
	}
	b.WriteString("💡 輸入「重播 1」可重播第 1 筆的語音\n")
	b.WriteString("💡 輸入「詳細 1」可查看完整內容")
	return b.String()
}

func replayReply(index int, rec session.Record) string {
	return fmt.Sprintf("🔄 重播第 %d 筆\n\n%s\n→ %s", index, rec.Original, rec.Translated)
}

func replayFailedReply(index int, rec session.Record) string {
	return replayReply(index, rec) + "\n\n❌ 語音生成失敗"
}

func detailReply(index int, rec session.Record) string {
	icon := "⌨️"
	if rec.Modality == session.ModalityVoice {
		icon = "🎤"
	}
	timeStr := rec.CreatedAt.Format("1/2 15:04")
	return fmt.Sprintf(`📜 第 %d 筆詳細

%s %s → %s
🕐 %s

【原文】
%s

【翻譯】
%s

💡 輸入「重播 %d」可播放語音`,
		index, icon,
		language.DisplayName(rec.From), language.DisplayName(rec.To),
		timeStr, rec.Original, rec.Translated, index)
}

func voiceResultReply(original, translated string) string {
	return fmt.Sprintf("🎤 %s\n\n🌏 %s", original, translated)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
