// Package catalog holds the bundled religious content: surah names, sample
// ayat, reciters, hadith and azkar.
package catalog

import (
	"errors"
	"fmt"
)

// ErrSurahNotFound is returned for surah numbers outside 1..114.
var ErrSurahNotFound = errors.New("surah not found")

// SurahCount is the number of surahs in the Quran.
const SurahCount = 114

// SurahPlaceholder is shown for surahs whose text is not bundled.
const SurahPlaceholder = "سيتم تحميل السورة عند الاتصال — (عرض تجريبي)."

var surahNames = [SurahCount]string{
	"الفاتحة", "البقرة", "آل عمران", "النساء", "المائدة", "الأنعام", "الأعراف", "الأنفال", "التوبة", "يونس",
	"هود", "يوسف", "الرعد", "إبراهيم", "الحجر", "النحل", "الإسراء", "الكهف", "مريم", "طه",
	"الأنبياء", "الحج", "المؤمنون", "النور", "الفرقان", "الشعراء", "النمل", "القصص", "العنكبوت", "الروم",
	"لقمان", "السجدة", "الأحزاب", "سبأ", "فاطر", "يس", "الصافات", "ص", "الزمر", "غافر",
	"فصلت", "الشورى", "الزخرف", "الدخان", "الجاثية", "الأحقاف", "محمد", "الفتح", "الحجرات", "ق",
	"الذاريات", "الطور", "النجم", "القمر", "الرحمن", "الواقعة", "الحديد", "المجادلة", "الحشر", "الممتحنة",
	"الصف", "الجمعة", "المنافقون", "التغابن", "الطلاق", "التحريم", "الملك", "القلم", "الحاقة", "المعارج",
	"نوح", "الجن", "المزمل", "المدثر", "القيامة", "الإنسان", "المرسلات", "النبأ", "النازعات", "عبس",
	"التكوير", "الانفطار", "المطففين", "الانشقاق", "البروج", "الطارق", "الأعلى", "الغاشية", "الفجر", "البلد",
	"الشمس", "الليل", "الضحى", "الشرح", "التين", "العلق", "القدر", "البينة", "الزلزلة", "العاديات",
	"القارعة", "التكاثر", "العصر", "الهمزة", "الفيل", "قريش", "الماعون", "الكوثر", "الكافرون", "النصر",
	"المسد", "الإخلاص", "الفلق", "الناس",
}

var fatiha = []string{
	"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
	"الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ",
	"الرَّحْمَٰنِ الرَّحِيمِ",
	"مَالِكِ يَوْمِ الدِّينِ",
	"إِيَّاكَ نَعْبُدُ وَإِيَّاكَ نَسْتَعِينُ",
	"اهْدِنَا الصِّرَاطَ الْمُسْتَقِيمَ",
	"صِرَاطَ الَّذِينَ أَنْعَمْتَ عَلَيْهِمْ غَيْرِ الْمَغْضُوبِ عَلَيْهِمْ وَلَا الضَّالِّينَ",
}

// Surah identifies a surah by its number and name.
type Surah struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// SurahText is a surah with its ayat, when bundled.
type SurahText struct {
	Surah
	Ayat        []string `json:"ayat,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Surahs lists all surahs in mushaf order.
func Surahs() []Surah {
	out := make([]Surah, SurahCount)
	for i, name := range surahNames {
		out[i] = Surah{Number: i + 1, Name: name}
	}
	return out
}

// SurahByNumber returns a surah's text. Only Al-Fatiha ships with ayat;
// the rest carry a placeholder.
func SurahByNumber(n int) (SurahText, error) {
	if n < 1 || n > SurahCount {
		return SurahText{}, fmt.Errorf("%w: %d", ErrSurahNotFound, n)
	}
	st := SurahText{Surah: Surah{Number: n, Name: surahNames[n-1]}}
	if n == 1 {
		st.Ayat = append([]string(nil), fatiha...)
	} else {
		st.Placeholder = SurahPlaceholder
	}
	return st, nil
}

// Reciter is a recitation source.
type Reciter struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
}

var reciters = []Reciter{
	{ID: "abdul_baset", Name: "عبد الباسط (مجود)", BaseURL: "https://download.quranicaudio.com/qdc/abdul_baset/mujawwad"},
	{ID: "mishary", Name: "مشاري العفاسي", BaseURL: "https://download.quranicaudio.com/qdc/mishari_al_afasy/murattal"},
}

// Reciters lists the available reciters; the first is the default.
func Reciters() []Reciter {
	return append([]Reciter(nil), reciters...)
}

// AudioURL returns the recitation URL for a surah. Unknown reciter IDs use
// the default reciter.
func AudioURL(reciterID string, surah int) (string, error) {
	if surah < 1 || surah > SurahCount {
		return "", fmt.Errorf("%w: %d", ErrSurahNotFound, surah)
	}
	r := reciters[0]
	for _, c := range reciters {
		if c.ID == reciterID {
			r = c
			break
		}
	}
	return fmt.Sprintf("%s/%03d.mp3", r.BaseURL, surah), nil
}
