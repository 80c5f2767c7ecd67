package codegen

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"
)

var mainTemplate = template.Must(template.New("main.go").Funcs(template.FuncMap{
	"quote": quoteStr,
}).Parse(mainTemplateSource))

const mainTemplateSource = `// Generated by cmdtree {{.Version}}.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)
{{range .Commands}}
var {{.Var}} = &cobra.Command{
	Use:   {{quote .Use}},
{{- if .Short}}
	Short: {{quote .Short}},
{{- end}}
	Run: func(cmd *cobra.Command, args []string) {
		// Command logic for {{quote .Name}} goes here.
	},
}
{{end}}
func init() {
{{- range .Commands}}
{{- $cmd := .Var}}
{{- range .Flags}}
	{{$cmd}}.Flags().{{.Func}}({{quote .Name}}, {{.Zero}}, {{quote .Description}})
{{- end}}
{{- range .Children}}
	{{$cmd}}.AddCommand({{.}})
{{- end}}
{{- end}}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`

func quoteStr(s string) string {
	return fmt.Sprintf("%q", s)
}

// toVarName builds a Go identifier from the command names on a path,
// e.g. ["remote", "add-url"] → "remoteAddUrlCmd".
func toVarName(names []string) string {
	var words []string
	for _, n := range names {
		words = append(words, splitWords(n)...)
	}
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if i > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		b.WriteString(string(r))
	}
	name := b.String()
	if unicode.IsDigit([]rune(name)[0]) {
		name = "cmd" + strings.ToUpper(name[:1]) + name[1:]
	}
	return name + "Cmd"
}

// splitWords splits s on any rune that cannot appear in an identifier.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
	})
}
