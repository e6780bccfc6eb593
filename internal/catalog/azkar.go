package catalog

// AzkarCategory is a named group of remembrances.
type AzkarCategory struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

var azkar = []AzkarCategory{
	{ID: "morning", Title: "أذكار الصباح", Items: []string{
		"أصبحنا وأصبح الملك لله...",
		"اللهم بك أصبحنا وبك أمسينا...",
	}},
	{ID: "evening", Title: "أذكار المساء", Items: []string{
		"أمسينا وأمسى الملك لله...",
		"اللهم بك أمسينا وبك أصبحنا...",
	}},
	{ID: "after-prayer", Title: "أذكار بعد الصلاة", Items: []string{
		"أستغفر الله (3) — اللهم أنت السلام ومنك السلام...",
	}},
	{ID: "sleep", Title: "أذكار النوم", Items: []string{
		"باسمك ربي وضعت جنبي وبك أرفعه...",
	}},
}

// DefaultAzkarCategory is shown when no category is chosen.
const DefaultAzkarCategory = "morning"

// AzkarCategories lists the categories in display order.
func AzkarCategories() []AzkarCategory {
	out := make([]AzkarCategory, len(azkar))
	for i, c := range azkar {
		out[i] = AzkarCategory{ID: c.ID, Title: c.Title, Items: append([]string(nil), c.Items...)}
	}
	return out
}

// Azkar returns one category by ID.
func Azkar(id string) (AzkarCategory, bool) {
	for _, c := range azkar {
		if c.ID == id {
			return AzkarCategory{ID: c.ID, Title: c.Title, Items: append([]string(nil), c.Items...)}, true
		}
	}
	return AzkarCategory{}, false
}

// Dhikr lists the phrases offered by the tasbih counter.
var Dhikr = []string{
	"سبحان الله",
	"الحمد لله",
	"الله أكبر",
	"لا إله إلا الله",
	"أستغفر الله",
}
