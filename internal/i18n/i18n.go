package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLang is the fallback language
var DefaultLang = language.English

// SupportedLangs are the languages we support
var SupportedLangs = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(SupportedLangs)

// spanish holds the translations of report headers, sheet titles and CLI
// messages. English strings are the message keys.
var spanish = map[string]string{
	// Report headers
	"ID":            "ID",
	"Name":          "Nombre",
	"External IP":   "IP Externa",
	"Internal IP":   "IP Interna",
	"External Port": "Puerto Externo",
	"Internal Port": "Puerto Interno",
	"Protocol":      "Protocolo",
	"NAME":          "NOMBRE",
	"TYPE":          "TIPO",
	"MFA TYPE":      "TIPO MFA",
	"GROUP":         "GRUPO",
	"STATUS":        "ESTADO",

	// Sheet titles
	"Firewall Policy":   "Políticas de Firewall",
	"DNAT":              "DNAT",
	"VPN Users":         "Usuarios VPN",
	"Web Filter Report": "Informe de Filtro Web",

	// CLI
	"Report written: %s":        "Informe generado: %s",
	"Error: %v":                 "Error: %v",
	"Reports are identical":     "Los informes son idénticos",
	"Configuration written: %s": "Configuración generada: %s",
	"Configuration valid: %s":   "Configuración válida: %s",
	"Unknown command: %s":       "Comando desconocido: %s",
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLang))
	for key, msg := range spanish {
		// CLI lines are printed with a trailing newline, which is part of the key.
		for _, suffix := range []string{"", "\n", "\n\n"} {
			if err := b.SetString(language.Spanish, key+suffix, msg+suffix); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return b
}

// MatchLanguage returns the best matching language for the given tags
func MatchLanguage(acceptLang string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(acceptLang)
	tag, _, _ := matcher.Match(tags...)
	return tag
}

// ParseLanguage maps a BCP 47 name from flags or config ("es", "es-AR") to
// the closest supported tag. Empty means DefaultLang.
func ParseLanguage(name string) (language.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultLang, nil
	}
	tag, err := language.Parse(name)
	if err != nil {
		return DefaultLang, err
	}
	matched, _, _ := matcher.Match(tag)
	return matched, nil
}

// NewPrinter returns a message printer for the given language
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Translator returns a function translating report header and sheet names
// into tag. Strings without a translation are returned unchanged, which is
// what pass-through policy columns rely on.
func Translator(tag language.Tag) func(string) string {
	base, _ := tag.Base()
	if def, _ := DefaultLang.Base(); base == def {
		return func(s string) string { return s }
	}
	p := NewPrinter(tag)
	return func(s string) string {
		if _, ok := spanish[s]; !ok {
			return s
		}
		return p.Sprintf(s)
	}
}

// NewCLIPrinter returns a printer for the system's locale (from env vars)
func NewCLIPrinter() *message.Printer {
	lang := os.Getenv("LC_ALL")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if lang == "" {
		return NewPrinter(DefaultLang)
	}

	// Strip encoding (e.g. .UTF-8) if present
	if i := strings.Index(lang, "."); i != -1 {
		lang = lang[:i]
	}

	// "es_AR" style locales: language.Parse accepts "_" as a separator.
	tag, err := language.Parse(lang)
	if err != nil {
		tag = MatchLanguage(lang)
	} else {
		tag, _, _ = matcher.Match(tag)
	}

	return NewPrinter(tag)
}
