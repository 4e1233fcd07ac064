package usecase

import "encoding/json"

// 監査ログのBefore/After用
func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func statusJSON(status string) string {
	return `{"status":` + quoteJSON(status) + `}`
}
