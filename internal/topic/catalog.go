// Package topic holds the fixed conversation-starter catalog for the
// pairing surface: 22 themes, each with 3 prompt cards shown in
// rotation. The catalog is compiled in and never changes at runtime.
package topic

import "math/rand"

const PromptsPerTheme = 3

var catalog = map[string][PromptsPerTheme]string{
	"猫":    {"猫派？犬派？", "飼ってる猫の名前は？", "猫の仕草で好きなものは？"},
	"ゲーム":  {"最近ハマってるゲームは？", "感動した瞬間は？", "推しキャラは？"},
	"旅行":   {"最近行った場所は？", "旅先での思い出は？", "理想の旅って？"},
	"音楽":   {"よく聴くジャンルは？", "好きなアーティストは？", "音楽で救われた瞬間ある？"},
	"映画":   {"最近観た映画は？", "泣いた映画ある？", "推し俳優は？"},
	"本":    {"好きな作家は？", "人生変えた一冊ある？", "読書ってどんな時にする？"},
	"カフェ":  {"お気に入りのカフェある？", "コーヒー派？紅茶派？", "理想のカフェ空間って？"},
	"学校":   {"得意だった科目は？", "部活何してた？", "学校での思い出ある？"},
	"仕事":   {"今どんな仕事してる？", "やりがい感じる瞬間は？", "理想の働き方って？"},
	"推し活":  {"推しは誰？", "推しのどこが好き？", "推しに救われたことある？"},
	"SNS":  {"よく使うSNSは？", "SNSで嬉しかったことある？", "SNSとの距離感どうしてる？"},
	"料理":   {"得意料理ある？", "最近作ったものは？", "食べる専門？作る派？"},
	"天気":   {"雨の日どう過ごす？", "好きな季節は？", "天気で気分変わるタイプ？"},
	"ファッション":{"服選びのこだわりある？", "好きな色は？", "最近買った服ある？"},
	"趣味":   {"最近の趣味は？", "昔ハマってたことある？", "趣味って人生に必要？"},
	"睡眠":   {"寝るの得意？", "理想の睡眠時間は？", "寝る前にすることある？"},
	"朝":    {"朝型？夜型？", "朝のルーティンある？", "朝ごはん食べる派？"},
	"夜":    {"夜ってどんな気分？", "夜に聴きたい音楽ある？", "夜更かしするタイプ？"},
	"ペット":  {"飼ってるペットいる？", "ペットとの思い出ある？", "理想のペットは？"},
	"アート":  {"好きな画家いる？", "美術館行く？", "自分で描いたことある？"},
	"スポーツ": {"観る派？やる派？", "好きなスポーツは？", "運動得意？"},
	"言葉":   {"好きな言葉ある？", "座右の銘ってある？", "言葉に救われたことある？"},
}

// Themes returns every theme name. Order is unspecified.
func Themes() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	return out
}

// Known reports whether name is a catalog theme.
func Known(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Prompt returns the card at index i for the theme, wrapping modulo
// the prompt count. The empty string means an unknown theme.
func Prompt(theme string, i int) string {
	cards, ok := catalog[theme]
	if !ok {
		return ""
	}
	i %= PromptsPerTheme
	if i < 0 {
		i += PromptsPerTheme
	}
	return cards[i]
}

// Sample draws n distinct themes at random, without replacement. If n
// exceeds the catalog size the whole catalog is returned.
func Sample(n int) []string {
	names := Themes()
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	if n > len(names) {
		n = len(names)
	}
	return names[:n]
}
