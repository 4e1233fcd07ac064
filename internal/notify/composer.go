package notify

import (
	"strconv"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

const DefaultHost = "wa.me"

// 注文をメッセージにしてディープリンクへ載せる
type Composer struct {
	host string
}

// DI
func NewComposer(host string) *Composer {
	host = strings.Trim(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultHost
	}
	return &Composer{host: host}
}

// 同じ注文なら同じ文字列（副作用なし）
func (c *Composer) Compose(o model.Order) string {
	var b strings.Builder

	b.WriteString("New order")
	if o.ID != "" {
		b.WriteString(" #")
		b.WriteString(o.ID)
	}
	b.WriteString("\n\n")

	b.WriteString("Customer: " + o.CustomerName + "\n")
	b.WriteString("Phone: " + o.Phone + "\n")
	b.WriteString("Address: " + o.Address + "\n")

	b.WriteString("\nItems:\n")
	for _, l := range o.Lines {
		b.WriteString(l.Name)
		b.WriteString(" x")
		b.WriteString(strconv.FormatInt(l.Quantity, 10))
		b.WriteString(" -> ")
		b.WriteString(l.LineTotal.String())
		b.WriteString(" ")
		b.WriteString(l.Currency)
		b.WriteString("\n")
	}

	b.WriteString("\nTotal: " + o.GrandTotal.String() + " " + o.Currency)
	return b.String()
}

// https://<host>/<数字だけの電話番号>?text=<エンコード済み本文>
func (c *Composer) DeepLink(text string, destinationPhone string) string {
	return "https://" + c.host + "/" + digitsOnly(destinationPhone) + "?text=" + EncodeURIComponent(text)
}

// 英数字と - _ . ! ~ * ' ( ) 以外はUTF-8のバイトごとに%XX
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isUnreserved(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0F])
	}
	return b.String()
}

func isUnreserved(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	switch ch {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
