package model

// AssembledQuiz is the complete render payload of one quiz version,
// served to respondents and to the authoring preview. Seed reproduces the
// version pick and option order when sent back.
type AssembledQuiz struct {
	Quiz          Quiz           `json:"quiz"`
	Version       Version        `json:"version"`
	Seed          string         `json:"seed"`
	Steps         []Step         `json:"steps"`
	Fields        []Field        `json:"fields"`
	Options       []Option       `json:"options"`
	GroupedInputs []GroupedInput `json:"grouped_inputs"`
	Media         []Media        `json:"media"`
}
