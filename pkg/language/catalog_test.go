package language

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  Code
		ok    bool
	}{
		{"中文", ZhTW, true},
		{"繁中", ZhTW, true},
		{"簡體", ZhCN, true},
		{"英文", EN, true},
		{"日", JA, true},
		{"韓語", KO, true},
		{"泰文", TH, true},
		{"en", EN, true},
		{"EN", EN, true},
		{"zh-tw", ZhTW, true},
		{"ZH-TW", ZhTW, true},
		{"klingon", "", false},
		{"", "", false},
		{"  日文  ", JA, true},
	}

	for _, tc := range cases {
		got, ok := Resolve(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName(ZhTW); got != "繁體中文" {
		t.Errorf("DisplayName(zh-TW) = %q", got)
	}
	if got := DisplayName(Code("xx")); got != "xx" {
		t.Errorf("unknown code should pass through, got %q", got)
	}
}

func TestProviderCodes(t *testing.T) {
	t.Parallel()

	if got := GoogleCode(ZhTW); got != "zh-TW" {
		t.Errorf("GoogleCode(zh-TW) = %q", got)
	}

	code, ok := DeepLCode(ZhTW)
	if !ok || code != "ZH" {
		t.Errorf("DeepLCode(zh-TW) = (%q, %v), want (ZH, true)", code, ok)
	}

	// Thai is outside DeepL's capability set.
	if _, ok := DeepLCode(TH); ok {
		t.Error("DeepLCode(th) should report unsupported")
	}
}

func TestEuropeanSubset(t *testing.T) {
	t.Parallel()

	for _, code := range []Code{EN, FR, DE, ES, IT, PT, NL, PL, RU} {
		if !IsEuropean(code) {
			t.Errorf("IsEuropean(%s) = false", code)
		}
	}
	for _, code := range []Code{ZhTW, JA, KO, TH, AR} {
		if IsEuropean(code) {
			t.Errorf("IsEuropean(%s) = true", code)
		}
	}
}

func TestAllStableOrder(t *testing.T) {
	t.Parallel()

	all := All()
	if len(all) != 20 {
		t.Fatalf("expected 20 languages, got %d", len(all))
	}
	if all[0].Code != ZhTW || all[2].Code != EN {
		t.Errorf("listing order changed: first=%s third=%s", all[0].Code, all[2].Code)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		expected Code
		want     bool
	}{
		{"chinese text as chinese", "你好嗎", ZhTW, true},
		{"english text as chinese", "Hello there", ZhTW, false},
		{"kana text as chinese", "こんにちは", ZhTW, false},
		{"kana text as japanese", "こんにちは", JA, true},
		{"han text as japanese", "漢字", JA, true},
		{"hangul text as korean", "안녕하세요", KO, true},
		{"english text as korean", "hello", KO, false},
		{"thai text as thai", "สวัสดี", TH, true},
		{"english text as english", "Hello, world! 123", EN, true},
		{"chinese text as english", "你好", EN, true}, // Han fallback
		{"mixed script as english", "Hello 你好", EN, true},
	}

	for _, tc := range cases {
		if got := Matches(tc.text, tc.expected); got != tc.want {
			t.Errorf("%s: Matches(%q, %s) = %v, want %v", tc.name, tc.text, tc.expected, got, tc.want)
		}
	}
}
