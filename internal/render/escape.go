package render

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var funcs = map[string]any{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"xml":   xmlText,
	"yaml":  yamlScalar,
	"java":  javaString,
}

// xmlText escapes s for use as XML character data.
func xmlText(s string) (string, error) {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// yamlScalar renders s as a single-line YAML scalar, quoted only when the
// plain form would not read back as the same string.
func yamlScalar(s string) (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	v := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(v, "\n") {
		// Go escapes are a subset of YAML double-quoted escapes
		return strconv.Quote(s), nil
	}
	return v, nil
}

var javaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// javaString escapes s for the inside of a Java string literal.
func javaString(s string) string {
	return javaEscaper.Replace(s)
}
