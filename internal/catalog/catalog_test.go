package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurahs(t *testing.T) {
	all := Surahs()
	require.Len(t, all, SurahCount)
	assert.Equal(t, Surah{Number: 1, Name: "الفاتحة"}, all[0])
	assert.Equal(t, Surah{Number: 18, Name: "الكهف"}, all[17])
	assert.Equal(t, Surah{Number: 114, Name: "الناس"}, all[113])
}

func TestSurahByNumber(t *testing.T) {
	f, err := SurahByNumber(1)
	require.NoError(t, err)
	assert.Len(t, f.Ayat, 7)
	assert.Empty(t, f.Placeholder)

	b, err := SurahByNumber(2)
	require.NoError(t, err)
	assert.Equal(t, "البقرة", b.Name)
	assert.Empty(t, b.Ayat)
	assert.Equal(t, SurahPlaceholder, b.Placeholder)

	for _, n := range []int{0, 115, -1} {
		_, err := SurahByNumber(n)
		assert.ErrorIs(t, err, ErrSurahNotFound)
	}
}

func TestAudioURL(t *testing.T) {
	tests := []struct {
		reciter string
		surah   int
		want    string
	}{
		{"mishary", 1, "https://download.quranicaudio.com/qdc/mishari_al_afasy/murattal/001.mp3"},
		{"abdul_baset", 36, "https://download.quranicaudio.com/qdc/abdul_baset/mujawwad/036.mp3"},
		{"unknown", 114, "https://download.quranicaudio.com/qdc/abdul_baset/mujawwad/114.mp3"},
	}
	for _, tt := range tests {
		got, err := AudioURL(tt.reciter, tt.surah)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AudioURL("mishary", 200)
	assert.ErrorIs(t, err, ErrSurahNotFound)
}

func TestSearchHadith(t *testing.T) {
	assert.Len(t, SearchHadith("  "), 3)

	got := SearchHadith("بالنيات")
	require.Len(t, got, 1)
	assert.Equal(t, "البخاري 1", got[0].Ref)

	got = SearchHadith("مسلم")
	require.Len(t, got, 1)
	assert.Equal(t, "مسلم 2699", got[0].Ref)

	got = SearchHadith("2516")
	require.Len(t, got, 1)
	assert.Equal(t, "الترمذي 2516", got[0].Ref)

	assert.Empty(t, SearchHadith("zzz"))
}

func TestSearchHadithNeedsContiguousMatch(t *testing.T) {
	got := SearchHadith("الاعمال")
	require.Len(t, got, 1)
	assert.Equal(t, "البخاري 1", got[0].Ref)

	// In order but scattered: 2, 1 and 6 all appear in "2516".
	assert.Empty(t, SearchHadith("216"))
	assert.Empty(t, SearchHadith("الاعمالالنيات"))
}

func TestAzkar(t *testing.T) {
	cats := AzkarCategories()
	require.Len(t, cats, 4)
	assert.Equal(t, DefaultAzkarCategory, cats[0].ID)

	sleep, ok := Azkar("sleep")
	require.True(t, ok)
	assert.Equal(t, []string{"باسمك ربي وضعت جنبي وبك أرفعه..."}, sleep.Items)

	_, ok = Azkar("noon")
	assert.False(t, ok)

	sleep.Items[0] = "changed"
	again, _ := Azkar("sleep")
	assert.NotEqual(t, "changed", again.Items[0])
}
