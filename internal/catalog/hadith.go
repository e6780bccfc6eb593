package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Hadith is a sample hadith with its collection reference.
type Hadith struct {
	Ref  string `json:"ref"`
	Text string `json:"text"`
}

var hadith = []Hadith{
	{Ref: "البخاري 1", Text: "إِنَّمَا الأَعْمَالُ بِالنِّيَّاتِ..."},
	{Ref: "مسلم 2699", Text: "لا تَحَاسَدُوا ولا تَنَاجَشُوا..."},
	{Ref: "الترمذي 2516", Text: "اتَّقِ اللَّهَ حَيْثُمَا كُنْتَ..."},
}

// SearchHadith returns hadith whose reference or text contains q, closest
// match first. Matching ignores case and diacritics. A blank query returns all.
func SearchHadith(q string) []Hadith {
	q = strings.TrimSpace(q)
	if q == "" {
		return append([]Hadith(nil), hadith...)
	}

	needle := fold(q)
	var ranks fuzzy.Ranks
	for i, h := range hadith {
		target := h.Ref + " " + h.Text
		if !strings.Contains(fold(target), needle) {
			continue
		}
		ranks = append(ranks, fuzzy.Rank{
			Source:        q,
			Target:        target,
			Distance:      fuzzy.RankMatchNormalizedFold(q, target),
			OriginalIndex: i,
		})
	}
	sort.Stable(ranks)

	out := make([]Hadith, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, hadith[r.OriginalIndex])
	}
	return out
}

// fold lowercases s and drops combining marks such as harakat and hamza.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
