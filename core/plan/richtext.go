package plan

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// mediaTags count as visible content even without text.
var mediaTags = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Video:  true,
	atom.Iframe: true,
	atom.Embed:  true,
	atom.Object: true,
}

// IsBlankRichText reports whether editor output holds no visible content: markup such as
// `<p><br></p>`, non-breaking spaces and zero-width characters are all blank.
func IsBlankRichText(s string) bool {
	if strings.TrimFunc(s, isInvisible) == "" {
		return true
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var skip int // inside <script> or <style>
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed tail; either way nothing visible was found
			return true
		case html.TextToken:
			if skip == 0 && strings.TrimFunc(string(z.Text()), isInvisible) != "" {
				return false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if mediaTags[tok.DataAtom] {
				return false
			}
			if tok.Type == html.StartTagToken && (tok.DataAtom == atom.Script || tok.DataAtom == atom.Style) {
				skip++
			}
		case html.EndTagToken:
			if tok := z.Token(); (tok.DataAtom == atom.Script || tok.DataAtom == atom.Style) && skip > 0 {
				skip--
			}
		}
	}
}

func isInvisible(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff'
}
