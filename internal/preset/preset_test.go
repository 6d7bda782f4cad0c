package preset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/finecalc/internal/store"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma", "強盗, 殺人", []string{"強盗", "殺人"}},
		{"whitespace", "強盗 未遂", []string{"強盗", "未遂"}},
		{"full width comma", "強盗、殺人、放火", []string{"強盗", "殺人", "放火"}},
		{"comma wins over full width", "強盗、殺人,放火", []string{"強盗、殺人", "放火"}},
		{"multi token segments", "銀行強盗 未遂, 公務執行妨害", []string{"銀行強盗", "未遂", "公務執行妨害"}},
		{"ideographic space", "強盗　殺人", []string{"強盗", "殺人"}},
		{"duplicates kept", "強盗,強盗", []string{"強盗", "強盗"}},
		{"empty segments dropped", ",強盗,,", []string{"強盗"}},
		{"empty", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Expand(Definition{Name: "p", RawMembers: tc.raw}))
		})
	}
}

func TestDefaultsExpandToOriginalPreset(t *testing.T) {
	t.Parallel()

	set := NewSet(Defaults())
	d, ok := set.Get("客船")
	require.True(t, ok)
	require.Equal(t, []string{"豪華客船強盗", "PL殺人及び未遂"}, Expand(d))
}

func TestRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	defs := FromRecords([]store.Record{
		{store.ColPresetName: "銀行", store.ColMemberList: "銀行強盗,人質"},
		{store.ColPresetName: "  ", store.ColMemberList: "ignored"},
		{store.ColPresetName: "客船", store.ColMemberList: "豪華客船強盗"},
	})
	require.Len(t, defs, 2)
	require.Equal(t, defs, FromRecords(Records(defs)))
}

func TestSetOrderingAndReplacement(t *testing.T) {
	t.Parallel()

	set := NewSet([]Definition{
		{Name: "b", RawMembers: "x"},
		{Name: "a", RawMembers: "y"},
		{Name: "b", RawMembers: "z"},
	})
	require.Equal(t, 2, set.Len())
	require.Equal(t, []string{"a", "b"}, set.Names())
	d, _ := set.Get("b")
	require.Equal(t, "z", d.RawMembers)
	_, ok := set.Get("missing")
	require.False(t, ok)
}
