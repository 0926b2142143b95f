package cmd

import "testing"

func TestTruncate(t *testing.T) {
	s := []int{1, 2, 3}
	cases := []struct {
		n    int
		want int
	}{
		{n: 2, want: 2},
		{n: 3, want: 3},
		{n: 10, want: 3},
		{n: 0, want: 0},
		{n: -1, want: 3},
	}
	for _, c := range cases {
		if got := truncate(s, c.n); len(got) != c.want {
			t.Errorf("truncate(%v, %d) has %d elements, want %d", s, c.n, len(got), c.want)
		}
	}
	if got := truncate([]int(nil), 5); got != nil {
		t.Errorf("truncate(nil) = %v", got)
	}
}

func TestRunPlayer_RejectsNegativeCounts(t *testing.T) {
	old := playerPartners
	defer func() { playerPartners = old }()

	playerPartners = -1
	if err := runPlayer(playerCmd, []string{"Alice"}); err == nil {
		t.Error("expected an error for --partners -1")
	}
}
