package chart

// Config mirrors the Chart.js configuration object consumed by the UI.
type Config struct {
	Type    Type    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type Options struct {
	Scales  *Scales `json:"scales,omitempty"`
	Plugins Plugins `json:"plugins"`
}

type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

type Axis struct {
	BeginAtZero bool      `json:"beginAtZero,omitempty"`
	Title       AxisTitle `json:"title"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type Plugins struct {
	Legend Legend     `json:"legend"`
	Title  TitleBlock `json:"title"`
}

type Legend struct {
	Display bool `json:"display"`
}

type TitleBlock struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// Build assembles a chart specification for index-aligned labels and values.
// Axis options apply only to non-pie types; pie charts omit scales entirely.
func Build(chartType Type, labels []string, values []float64, title string) Config {
	background, border := colorsFor(len(labels))

	cfg := Config{
		Type: chartType,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Value",
				Data:            values,
				BackgroundColor: background,
				BorderColor:     border,
				BorderWidth:     1,
			}},
		},
		Options: Options{
			Plugins: Plugins{
				Legend: Legend{Display: true},
				Title:  TitleBlock{Display: true, Text: title},
			},
		},
	}
	if chartType != TypePie {
		cfg.Options.Scales = &Scales{
			X: Axis{Title: AxisTitle{Display: true, Text: "Label"}},
			Y: Axis{BeginAtZero: true, Title: AxisTitle{Display: true, Text: "Value"}},
		}
	}
	return cfg
}
