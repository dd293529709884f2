package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wanderlab/kotoba/pkg/language"
	"github.com/wanderlab/kotoba/pkg/session"
)

// Numbered history commands, 1-based from the user's point of view.
var (
	replayPattern = regexp.MustCompile(`^(?:重播|replay)\s*(\d+)$`)
	detailPattern = regexp.MustCompile(`^(?:詳細|detail)\s*(\d+)$`)
)

// shortcutPairs maps fixed two-language tokens to the pair they select.
var shortcutPairs = map[string]session.Pair{
	"中英": {From: language.ZhTW, To: language.EN},
	"中日": {From: language.ZhTW, To: language.JA},
	"中韓": {From: language.ZhTW, To: language.KO},
	"中泰": {From: language.ZhTW, To: language.TH},
	"中越": {From: language.ZhTW, To: language.VI},
	"中法": {From: language.ZhTW, To: language.FR},
	"中德": {From: language.ZhTW, To: language.DE},
	"中西": {From: language.ZhTW, To: language.ES},
	"英日": {From: language.EN, To: language.JA},
	"英韓": {From: language.EN, To: language.KO},
	"日韓": {From: language.JA, To: language.KO},
}

func parseIndex(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// handleMenu answers the fixed quick-reply labels from the rich menu.
// It returns nil when text is not a menu keyword; labels never mutate
// the session beyond reading the current pair.
func (e *Engine) handleMenu(userID, text string) []Message {
	switch text {
	case "語音翻譯":
		pair := e.sessions.Pair(userID)
		return []Message{{Text: voiceModeReply(e.transcriber != nil, pair)}}
	case "文字翻譯":
		return []Message{{Text: textModeReply(e.sessions.Pair(userID))}}
	case "切換語言":
		return []Message{{Text: switchMenuReply(e.sessions.Pair(userID))}}
	case "常用句":
		return []Message{{Text: phrasebookReply}}
	case "翻譯歷史":
		history := e.sessions.History(userID)
		if len(history) == 0 {
			return []Message{{Text: emptyHistoryReply}}
		}
		return []Message{{Text: historyListReply(history)}}
	case "使用說明":
		return []Message{{Text: helpReply}}
	}
	return nil
}

// handleCommand dispatches slash commands by name. Unrecognized
// commands fall through to help.
func (e *Engine) handleCommand(userID, text string) []Message {
	parts := strings.Fields(text)
	command := strings.ToLower(parts[0])

	switch command {
	case "/語言", "/lang":
		return []Message{{Text: languageListReply}}

	case "/設定", "/set":
		if len(parts) < 3 {
			return []Message{{Text: setPairUsageReply}}
		}
		from, ok := language.Resolve(parts[1])
		if !ok {
			return []Message{{Text: unknownLanguageReply(parts[1])}}
		}
		to, ok := language.Resolve(parts[2])
		if !ok {
			return []Message{{Text: unknownLanguageReply(parts[2])}}
		}
		if err := e.sessions.SetPair(userID, from, to); err != nil {
			return []Message{{Text: samePairReply}}
		}
		return []Message{{Text: pairSetReply(session.Pair{From: from, To: to})}}

	case "/交換", "/swap":
		pair := e.sessions.Swap(userID)
		return []Message{{Text: pairSwappedReply(pair)}}

	default:
		return []Message{{Text: helpReply}}
	}
}
