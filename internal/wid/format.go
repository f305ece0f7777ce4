package wid

import (
	"fmt"
	"strings"

	"github.com/roach88/wid/internal/tick"
)

// FormatWid renders a plain WID. Empty scope or pad are omitted.
func FormatWid(p Params, t int64, seq int, scope, pad string) string {
	var b strings.Builder
	writeHead(&b, p, t, seq)
	if scope != "" {
		b.WriteByte('-')
		b.WriteString(scope)
	}
	if pad != "" {
		b.WriteByte('-')
		b.WriteString(pad)
	}
	return b.String()
}

// FormatHLC renders an HLC-WID. An empty pad is omitted.
func FormatHLC(p Params, t int64, lc int, node, pad string) string {
	var b strings.Builder
	writeHead(&b, p, t, lc)
	b.WriteByte('-')
	b.WriteString(node)
	if pad != "" {
		b.WriteByte('-')
		b.WriteString(pad)
	}
	return b.String()
}

func writeHead(b *strings.Builder, p Params, t int64, n int) {
	b.WriteString(tick.Format(t, p.Unit))
	b.WriteByte('.')
	fmt.Fprintf(b, "%0*d", p.W, n)
	b.WriteByte('Z')
}
