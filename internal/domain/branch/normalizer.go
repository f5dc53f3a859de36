// Package branch приводит свободный текст поля «اسم الفرع» к одному из
// восьми канонических городов.
package branch

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"surveydesk/internal/domain/survey"
)

// Field is the question that holds the branch name.
const Field = "اسم الفرع"

// Canonical city names.
const (
	Idlib     = "إدلب"
	Aleppo    = "حلب"
	Hama      = "حماة"
	Homs      = "حمص"
	Damascus  = "دمشق"
	Latakia   = "اللاذقية"
	Tartus    = "طرطوس"
	DeirEzZor = "دير الزور"
)

type city struct {
	name     string
	keywords []string
}

// Priority order: the first city with a matching keyword wins.
// A canonical name must never contain a keyword of a city listed before it.
var cities = []city{
	{Idlib, []string{
		"إدلب", "ادلب", "idlib", "idleb",
		"جسر الشغور", "الشغور", "سراقب", "أريحا", "معرة النعمان", "معرة مصرين",
		"سرمدا", "الدانا", "حارم", "سلقين", "كفرنبل", "بنش",
	}},
	{Aleppo, []string{
		"حلب", "aleppo", "halab",
		"اعزاز", "أعزاز", "الباب", "منبج", "عفرين", "جرابلس", "السفيرة",
	}},
	{Hama, []string{
		"حماة", "حماه", "hama",
		"السلمية", "مصياف", "محردة", "صوران",
	}},
	{Homs, []string{
		"حمص", "homs",
		"تدمر", "القصير", "الرستن", "تلكلخ",
	}},
	{Damascus, []string{
		"دمشق", "الشام", "damascus",
		"ريف دمشق", "دوما", "جرمانا", "داريا", "قطنا", "الكسوة",
	}},
	{Latakia, []string{
		"اللاذقية", "لاذقية", "latakia", "lattakia",
		"جبلة", "القرداحة", "الحفة",
	}},
	{Tartus, []string{
		"طرطوس", "tartus", "tartous",
		"بانياس", "صافيتا", "الدريكيش",
	}},
	{DeirEzZor, []string{
		"دير الزور", "ديرالزور", "deir ez zor", "deir ezzor",
		"الميادين", "البوكمال",
	}},
}

// fieldHints mark keys that may hold the branch name under another wording.
var fieldHints = []string{"فرع", "محطه", "branch", "station"}

type keyword struct {
	spaced  string
	compact string
}

// Normalizer maps free-text branch names to canonical ones. Safe for concurrent use.
type Normalizer struct {
	names    []string
	keywords [][]keyword
	hints    []string
}

func NewNormalizer() *Normalizer {
	n := &Normalizer{
		names:    make([]string, len(cities)),
		keywords: make([][]keyword, len(cities)),
	}
	for i, c := range cities {
		n.names[i] = c.name
		for _, kw := range c.keywords {
			s := Normalize(kw)
			n.keywords[i] = append(n.keywords[i], keyword{spaced: s, compact: compact(s)})
		}
	}
	for _, h := range fieldHints {
		n.hints = append(n.hints, Normalize(h))
	}
	return n
}

// Normalize folds Arabic letter variants to one base form, drops diacritics,
// tatweel and punctuation, lower-cases Latin and collapses whitespace.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == 'ة':
			b.WriteRune('ه')
		case r == 'ى':
			b.WriteRune('ي')
		case r == 'ـ':
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Canonical returns the city a branch value belongs to.
func (n *Normalizer) Canonical(value string) (string, bool) {
	v := Normalize(value)
	if v == "" {
		return "", false
	}
	vc := compact(v)

	for i, kws := range n.keywords {
		for _, kw := range kws {
			if strings.Contains(v, kw.spaced) || strings.Contains(vc, kw.compact) {
				return n.names[i], true
			}
		}
	}

	// Номера станций без названия города относятся к Идлибу. Правило не подтверждено.
	if strings.IndexFunc(v, unicode.IsDigit) >= 0 {
		return Idlib, true
	}
	return "", false
}

// FindField locates the payload key holding the branch name: the exact
// question first, then any key that mentions a branch or station.
func (n *Normalizer) FindField(p survey.Payload) (string, bool) {
	if v, ok := p[Field]; ok && strings.TrimSpace(survey.StringValue(v)) != "" {
		return Field, true
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.TrimSpace(survey.StringValue(p[k])) == "" {
			continue
		}
		nk := Normalize(k)
		for _, h := range n.hints {
			if strings.Contains(nk, h) {
				return k, true
			}
		}
	}
	return "", false
}

// Names lists canonical cities in priority order.
func (n *Normalizer) Names() []string {
	return append([]string(nil), n.names...)
}
