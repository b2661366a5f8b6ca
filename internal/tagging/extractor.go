// Package tagging 从自由文本中提取话题标签。
//
// 提取是纯函数：hashtag、表情分类、去停用词后的前 5 个有效词、话题关键词，
// 四路结果取并集。
package tagging

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxSignificantWords 有效词最多取前几个（按出现顺序）
	MaxSignificantWords = 5
	minWordLen          = 4
)

var (
	hashtagRe = regexp.MustCompile(`#(\w+)`)
	nonWordRe = regexp.MustCompile(`[^\w\s]`)
	numericRe = regexp.MustCompile(`^\d+$`)

	stopWords   map[string]struct{}
	emojiIndex  []map[rune]struct{}
	emojiLabels []string
)

func init() {
	stopWords = make(map[string]struct{}, len(stopWordList))
	for _, w := range stopWordList {
		stopWords[w] = struct{}{}
	}

	emojiIndex = make([]map[rune]struct{}, len(emojiCategoryList))
	emojiLabels = make([]string, len(emojiCategoryList))
	for i, c := range emojiCategoryList {
		set := make(map[rune]struct{})
		for _, r := range c.emojis {
			set[r] = struct{}{}
		}
		emojiIndex[i] = set
		emojiLabels[i] = c.label
	}
}

// Extract 返回去重、排序后的标签；空文本返回空切片
func Extract(text string) []string {
	if text == "" {
		return []string{}
	}

	labels := make(map[string]struct{})
	add := func(l string) {
		if l != "" {
			labels[l] = struct{}{}
		}
	}

	for _, l := range Hashtags(text) {
		add(l)
	}
	for _, l := range EmojiCategories(text) {
		add(l)
	}
	for _, l := range SignificantWords(text) {
		add(l)
	}
	for _, l := range Topics(text) {
		add(l)
	}

	out := make([]string, 0, len(labels))
	for l := range labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Hashtags 提取 #word，小写并去掉 #
func Hashtags(text string) []string {
	matches := hashtagRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// EmojiCategories 按表顺序返回命中的分类，同名分类只出现一次
func EmojiCategories(text string) []string {
	present := make(map[rune]struct{})
	for _, r := range text {
		present[r] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{})
	for i, set := range emojiIndex {
		for r := range set {
			if _, ok := present[r]; !ok {
				continue
			}
			if _, dup := seen[emojiLabels[i]]; !dup {
				seen[emojiLabels[i]] = struct{}{}
				out = append(out, emojiLabels[i])
			}
			break
		}
	}
	return out
}

// SignificantWords 小写、非单词字符替换为空格后切分，
// 丢弃纯数字、长度不超过 3 以及停用词，按出现顺序取前 MaxSignificantWords 个
func SignificantWords(text string) []string {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")

	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) < minWordLen || numericRe.MatchString(w) {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
		if len(out) == MaxSignificantWords {
			break
		}
	}
	return out
}

// Topics 简单子串匹配（不考虑词边界）
func Topics(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range topicList {
		for _, trig := range t.triggers {
			if strings.Contains(lower, trig) {
				out = append(out, t.label)
				break
			}
		}
	}
	return out
}
