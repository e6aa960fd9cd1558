package chart

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SVG writes the surface as a standalone SVG document.
func SVG(w io.Writer, s *Surface) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		esc(s.ID), num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	for _, bar := range s.Bars {
		fmt.Fprintf(&b, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(bar.X), num(bar.Y), num(bar.Width), num(bar.Height), esc(bar.Fill))
		fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" fill="white">%s</text>`+"\n",
			num(bar.ValueLabel.X), num(bar.ValueLabel.Y), esc(bar.ValueLabel.Text))
		fmt.Fprintf(&b, `  <text x="%s" y="%s" text-anchor="middle" font-size="10px">%s</text>`+"\n",
			num(bar.DateLabel.X), num(bar.DateLabel.Y), esc(bar.DateLabel.Text))
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
