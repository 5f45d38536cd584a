package locale

import "strings"

const (
	LanguageFinnish = "fi"
	LanguageSwedish = "sv"
	LanguageEnglish = "en"
	LanguageRussian = "ru"
)

// Default 是平台默认语言，所有无法识别的输入都会归一化到它。
const Default = LanguageFinnish

var supported = map[string]bool{
	LanguageFinnish: true,
	LanguageSwedish: true,
	LanguageEnglish: true,
	LanguageRussian: true,
}

// Supported 返回语言代码是否在平台支持的集合内。
func Supported(code string) bool {
	return supported[strings.ToLower(strings.TrimSpace(code))]
}

// Normalize 把客户端提交的语言代码归一化到支持的集合，
// 无法识别时回退到平台默认语言。
func Normalize(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return Default
	}
	if idx := strings.IndexAny(trimmed, "-_"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	if supported[trimmed] {
		return trimmed
	}
	return Default
}

// NormalizeCountry 归一化国家代码为两位大写形式，非法输入返回空串。
func NormalizeCountry(raw string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if len(trimmed) != 2 {
		return ""
	}
	for _, r := range trimmed {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return trimmed
}
