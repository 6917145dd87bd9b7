package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimtaewoo9/mansereok/domain/core/entities"
	vo "github.com/kimtaewoo9/mansereok/domain/core/valueobjects"
	"github.com/kimtaewoo9/mansereok/internal/testutil"
)

func TestVerify_CleanData(t *testing.T) {
	assert.Empty(t, Verify(testutil.Records1987()))
}

func TestVerify_OrderDoesNotMatter(t *testing.T) {
	records := testutil.Records1987()
	reversed := make([]*entities.AlmanacRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	assert.Empty(t, Verify(reversed))
}

func TestVerify_Problems(t *testing.T) {
	shift := func(r *entities.AlmanacRecord) *entities.AlmanacRecord {
		cp := *r
		return &cp
	}

	tests := []struct {
		name    string
		mutate  func([]*entities.AlmanacRecord) []*entities.AlmanacRecord
		date    time.Time
		problem string
	}{
		{
			name: "wrong day pillar",
			mutate: func(rs []*entities.AlmanacRecord) []*entities.AlmanacRecord {
				rs[10] = shift(rs[10])
				rs[10].Day = rs[10].Day.Next(1)
				return rs
			},
			date:    testutil.Start.AddDate(0, 0, 10),
			problem: "day pillar",
		},
		{
			name: "gap",
			mutate: func(rs []*entities.AlmanacRecord) []*entities.AlmanacRecord {
				return append(rs[:20:20], rs[21:]...)
			},
			date:    testutil.Start.AddDate(0, 0, 21),
			problem: "gap after",
		},
		{
			name: "duplicate",
			mutate: func(rs []*entities.AlmanacRecord) []*entities.AlmanacRecord {
				return append(rs, shift(rs[5]))
			},
			date:    testutil.Start.AddDate(0, 0, 5),
			problem: "duplicate",
		},
		{
			name: "month change off a term day",
			mutate: func(rs []*entities.AlmanacRecord) []*entities.AlmanacRecord {
				i := indexOf(t, rs, testutil.Date(1987, 2, 20))
				for j := i; j < len(rs) && rs[j].SolarDate.Before(testutil.Date(1987, 3, 6)); j++ {
					rs[j] = shift(rs[j])
					rs[j].Month = vo.MustStemBranch(vo.StemGye, vo.BranchMyo)
				}
				return rs
			},
			date:    testutil.Date(1987, 2, 20),
			problem: "without a solar term",
		},
		{
			name: "month jump on a term day",
			mutate: func(rs []*entities.AlmanacRecord) []*entities.AlmanacRecord {
				for i, r := range rs {
					if !r.SolarDate.Before(testutil.Date(1987, 3, 6)) && r.SolarDate.Before(testutil.Date(1987, 4, 5)) {
						rs[i] = shift(r)
						rs[i].Month = rs[i].Month.Next(1)
					}
				}
				return rs
			},
			date:    testutil.Date(1987, 3, 6),
			problem: "jumps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Verify(tt.mutate(testutil.Records1987()))
			require.NotEmpty(t, issues)

			found := false
			for _, issue := range issues {
				if issue.SolarDate.Equal(tt.date) {
					assert.Contains(t, issue.Problem, tt.problem)
					found = true
				}
			}
			assert.True(t, found, "no issue on %s in %v", tt.date.Format(vo.DateLayout), issues)
		})
	}
}

func indexOf(t *testing.T, rs []*entities.AlmanacRecord, d time.Time) int {
	t.Helper()
	for i, r := range rs {
		if r.SolarDate.Equal(d) {
			return i
		}
	}
	t.Fatalf("no record for %s", d.Format(vo.DateLayout))
	return -1
}
