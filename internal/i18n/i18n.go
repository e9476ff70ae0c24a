package i18n

import (
	"fmt"
	"strings"

	"github.com/shoppingmall/internal/constants"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// LocaleZH 简体中文
	LocaleZH = constants.LocaleZhCN
	// LocaleEN 英文
	LocaleEN = constants.LocaleEnUS
	// DefaultLocale 默认语言
	DefaultLocale = LocaleZH
)

const localeContextKey = "locale"

var supportedTags = []language.Tag{
	language.SimplifiedChinese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 解析请求语言，优先级：上下文缓存 > lang 参数 > X-Locale > Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if cached, ok := c.Get(localeContextKey); ok {
		if locale, ok := cached.(string); ok && locale != "" {
			return locale
		}
	}
	locale := ""
	if c.Request != nil {
		candidates := []string{
			c.Query("lang"),
			c.GetHeader("X-Locale"),
		}
		for _, candidate := range candidates {
			if strings.TrimSpace(candidate) != "" {
				locale = NormalizeLocale(candidate)
				break
			}
		}
		if locale == "" {
			locale = MatchAcceptLanguage(c.GetHeader("Accept-Language"))
		}
	}
	if locale == "" {
		locale = DefaultLocale
	}
	c.Set(localeContextKey, locale)
	return locale
}

// MatchAcceptLanguage 根据 Accept-Language 选择支持的语言
func MatchAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return localeOfTag(supportedTags[index])
}

// NormalizeLocale 规范化语言标识，无法识别时返回默认语言
func NormalizeLocale(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}
	return localeOfTag(supportedTags[index])
}

func localeOfTag(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == "en" {
		return LocaleEN
	}
	return LocaleZH
}

// T 翻译文案，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if msgs, ok := messages[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
