// Package chart shapes classified label/value data into a Chart.js-style
// specification plus presentational avatar markup.
package chart

// Type is one of the three renderable chart types.
type Type string

const (
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypePie  Type = "pie"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBar, TypeLine, TypePie:
		return true
	default:
		return false
	}
}
