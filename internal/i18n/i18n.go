// Package i18n holds the translated strings shown to users (the client fallback message and view titles).
//
// English is the default; Chinese translations are provided for every key.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English text.
const (
	RequestFailed          = "request failed"
	TitleIpv6Detection     = "IPv6 Detection"
	TitleTopologyDetection = "Topology Detection"
	TitleRouterTags        = "Router Vendor Tags"
	TitleOrganizationTags  = "Organization Industry Tags"
	TitleKnowledgeGraph    = "Adversarial Environment Knowledge Graph"
)

var zh = map[string]string{
	RequestFailed:          "请求失败",
	TitleIpv6Detection:     "IPv6探测工具",
	TitleTopologyDetection: "拓扑探测工具",
	TitleRouterTags:        "路由器厂商标签挖掘",
	TitleOrganizationTags:  "组织行业标签挖掘",
	TitleKnowledgeGraph:    "对抗环境认知图谱",
}

var (
	supported = []language.Tag{language.English, language.Chinese}
	matcher   = language.NewMatcher(supported)
	messages  = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translated := range zh {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Chinese, key, translated)
	}
	return b
}

// ParseLanguage converts a language name such as "zh", "zh-CN" or "en-GB" into a supported tag.
// Unknown or malformed values resolve to English.
func ParseLanguage(s string) language.Tag {
	t, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return Match(t)
}

// Match returns the supported language closest to t.
func Match(t language.Tag) language.Tag {
	_, idx, _ := matcher.Match(t)
	return supported[idx]
}

// T translates key into the language closest to t.
func T(t language.Tag, key string) string {
	p := message.NewPrinter(Match(t), message.Catalog(messages))
	return p.Sprintf(key)
}
