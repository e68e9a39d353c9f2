package annotate

import (
	"strings"
	"text/template"

	"github.com/liliang-cn/citelens/internal/domain"
)

// Task names a prompt/decoder pair.
type Task string

const (
	TaskLocate        Task = "locate"
	TaskLocatePhrases Task = "locate_phrases"
	TaskExtractFields Task = "extract_fields"
	TaskMatchFields   Task = "match_fields"
)

// Contract couples a prompt template with the output shape its decoder
// reads. Changing the wording of a template means bumping Version and
// keeping Example decodable by the matching parser.
type Contract struct {
	Task    Task
	Version int
	// Example is a sample answer embedded in the prompt.
	Example string
	tmpl    *template.Template
}

// Render fills the template. Templates are fixed at init and only read
// exported fields of the input types below, so execution cannot fail for
// those inputs.
func (c Contract) Render(data any) string {
	var sb strings.Builder
	if err := c.tmpl.Execute(&sb, data); err != nil {
		panic("annotate: render " + string(c.Task) + ": " + err.Error())
	}
	return sb.String()
}

// LocateInput feeds TaskLocate.
type LocateInput struct {
	Content string
}

// PhrasesInput feeds TaskLocatePhrases.
type PhrasesInput struct {
	Phrases []string
}

// FieldsInput feeds TaskExtractFields.
type FieldsInput struct {
	Task string
}

// MatchInput feeds TaskMatchFields.
type MatchInput struct {
	Values []string
}

func newContract(task Task, version int, example, text string) Contract {
	tmpl := template.Must(template.New(string(task)).
		Funcs(template.FuncMap{"example": func() string { return example }}).
		Parse(text))
	return Contract{Task: task, Version: version, Example: example, tmpl: tmpl}
}

var contracts = map[Task]Contract{
	TaskLocate: newContract(TaskLocate, 1, `[120, 45, 160, 610]`,
		`Return bounding boxes as JSON arrays [ymin, xmin, ymax, xmax].

Return bounding boxes that capture details about "{{.Content}}".
Return multiple bounding boxes if there are multiple instances of the content.
Ensure each bounding box is solely focussed on capturing the specific content.
This is important - we want to cite the exact content, not the surrounding text.
Coordinates are integers from 0 to 1000 relative to the image size.
Example: {{example}}`),

	TaskLocatePhrases: newContract(TaskLocatePhrases, 1, `[120, 45, 160, 610, "first phrase"]`,
		`Return bounding boxes as JSON arrays [ymin, xmin, ymax, xmax, "phrase"].

Find each of the following phrases in the image:
{{range .Phrases}}- "{{.}}"
{{end}}
Return one array per instance found, with the phrase copied exactly as listed.
Coordinates are integers from 0 to 1000 relative to the image size.
Do not return arrays for phrases you cannot find.
Example: {{example}}`),

	TaskExtractFields: newContract(TaskExtractFields, 1, "Invoice Number: 10432\nDue Date: 01/01/2023",
		`Read the image and extract the information needed for this task:
{{.Task}}

Answer with one field per line using the format "label: value".
Copy values exactly as they appear in the image. Do not add any other text.
Example:
{{example}}`),

	TaskMatchFields: newContract(TaskMatchFields, 1, `[300, 80, 330, 420, "01/01/2023"]`,
		`Return bounding boxes as JSON arrays [ymin, xmin, ymax, xmax, "value"].

Locate the text of each of these values in the image:
{{range .Values}}- "{{.}}"
{{end}}
Return one array per value, with the value copied exactly as listed.
Each bounding box must tightly enclose the value text only.
Coordinates are integers from 0 to 1000 relative to the image size.
Example: {{example}}`),
}

// ContractFor returns the contract for a task.
func ContractFor(task Task) (Contract, bool) {
	c, ok := contracts[task]
	return c, ok
}

// LocatePrompt asks for every instance of a single piece of content.
func LocatePrompt(content string) string {
	return contracts[TaskLocate].Render(LocateInput{Content: content})
}

// PhrasesPrompt asks for every instance of several phrases, each box tagged
// with the phrase it belongs to.
func PhrasesPrompt(phrases []string) string {
	return contracts[TaskLocatePhrases].Render(PhrasesInput{Phrases: phrases})
}

// ExtractFieldsPrompt asks for "label: value" lines answering task.
func ExtractFieldsPrompt(task string) string {
	return contracts[TaskExtractFields].Render(FieldsInput{Task: task})
}

// MatchFieldsPrompt asks for the location of each field value.
func MatchFieldsPrompt(fields []domain.ExtractedField) string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return contracts[TaskMatchFields].Render(MatchInput{Values: values})
}
