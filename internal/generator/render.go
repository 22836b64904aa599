package generator

import (
	"io"
	"strings"
	"text/template"

	"github.com/untodesu/binarray/internal/templates"
)

// RowWidth is the maximum number of byte literals on one array body line.
const RowWidth = 12

const hexDigits = "0123456789abcdef"

// Declaration is the data fed to the binarray.cpp template.
type Declaration struct {
	Prefix string
	Size   int
	// Rows are the array body lines, without indentation.
	Rows []string
}

// NewDeclaration builds the template data for data named by prefix.
func NewDeclaration(prefix string, data []byte) Declaration {
	return Declaration{
		Prefix: prefix,
		Size:   len(data),
		Rows:   HexRows(data),
	}
}

// Render writes the C++ source for d to w.
func (d Declaration) Render(w io.Writer) error {
	return executeTemplate(templates.Binarray, w, d)
}

// Render writes the C++ byte-array declaration of data to w.
func Render(w io.Writer, prefix string, data []byte) error {
	return NewDeclaration(prefix, data).Render(w)
}

// HexRows formats data as rows of at most RowWidth lowercase 0x literals
// separated by a single space. Every literal except the last one of data
// carries a trailing comma. Empty data yields no rows.
func HexRows(data []byte) []string {
	rows := make([]string, 0, (len(data)+RowWidth-1)/RowWidth)
	last := len(data) - 1

	var sb strings.Builder
	for start := 0; start < len(data); start += RowWidth {
		end := min(start+RowWidth, len(data))

		sb.Reset()
		sb.Grow((end - start) * 6)
		for i := start; i < end; i++ {
			if i > start {
				sb.WriteByte(' ')
			}
			b := data[i]
			sb.WriteString("0x")
			sb.WriteByte(hexDigits[b>>4])
			sb.WriteByte(hexDigits[b&0x0f])
			if i < last {
				sb.WriteByte(',')
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// executeTemplate loads a template, parses it and executes it into w.
func executeTemplate(tmplName string, w io.Writer, data interface{}) error {
	tmplContent, err := templates.Get(tmplName)
	if err != nil {
		return err
	}

	t, err := template.New(tmplName).Option("missingkey=error").Parse(tmplContent)
	if err != nil {
		return err
	}

	return t.Execute(w, data)
}
