package chart

import (
	"fmt"
	"strings"
	"unicode"
)

const avatarTemplate = `<div style="display: inline-block; margin: 10px; text-align: center;">
    <svg width="50" height="50">
        <circle cx="25" cy="25" r="20" fill="%s"/>
        <text x="25" y="25" fill="white" text-anchor="middle" dy=".3em" font-size="14">%s</text>
    </svg>
    <div>%s</div>
</div>
`

// AvatarMarkup renders an avatar block for every label that looks like a
// person's full name, meaning it contains a space. Initials come from the
// first two words; the circle reuses the label's cyclic chart color.
func AvatarMarkup(labels []string) string {
	var b strings.Builder
	for i, label := range labels {
		if !strings.Contains(label, " ") {
			continue
		}
		b.WriteString(fmt.Sprintf(avatarTemplate, ColorAt(i), Initials(label), label))
	}
	return b.String()
}

// Initials returns up to two uppercase initials from the first two words.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		if len(runes) == 0 {
			continue
		}
		b.WriteRune(unicode.ToUpper(runes[0]))
	}
	return b.String()
}
