package chart

// Fixed five-entry palette with matching border shades. Assignment cycles by
// index modulo the palette size, so label i and label i+5 share colors.
var (
	backgroundPalette = [5]string{"#36A2EB", "#FF6384", "#FFCE56", "#4BC0C0", "#9966FF"}
	borderPalette     = [5]string{"#2A8BBF", "#D44F6E", "#D4A53F", "#3A9C9C", "#7A52CC"}
)

func ColorAt(index int) string {
	return backgroundPalette[index%len(backgroundPalette)]
}

func BorderColorAt(index int) string {
	return borderPalette[index%len(borderPalette)]
}

func colorsFor(count int) ([]string, []string) {
	background := make([]string, count)
	border := make([]string, count)
	for i := 0; i < count; i++ {
		background[i] = ColorAt(i)
		border[i] = BorderColorAt(i)
	}
	return background, border
}
