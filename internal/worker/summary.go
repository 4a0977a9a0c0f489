package worker

import "strings"

// Summarize возвращает текст между первым '>' и следующим за ним '<'.
// Без '>' результат пустой; если '<' дальше нет, возвращается весь остаток строки.
func Summarize(desc string) string {
	start := strings.IndexByte(desc, '>')
	if start < 0 {
		return ""
	}
	rest := desc[start+1:]
	if end := strings.IndexByte(rest, '<'); end >= 0 {
		return rest[:end]
	}
	return rest
}
