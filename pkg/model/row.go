package model

// Row is one line of the tabular task list. Missing cells are empty strings.
type Row struct {
	Task        string
	Description string
	Skill       string
	Other       string
}
