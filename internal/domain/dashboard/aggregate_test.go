package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

func failure(id int64, unit units.ID, date string, active bool) *failures.Failure {
	d, err := failures.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return &failures.Failure{ID: id, UnitID: unit, Date: d, Active: active, Description: fmt.Sprintf("falha %d", id)}
}

func ids(list []*FailureWithUnitName) []int64 {
	out := make([]int64, 0, len(list))
	for _, f := range list {
		out = append(out, f.ID)
	}
	return out
}

func mustPeriod(t *testing.T, month, year int) Period {
	t.Helper()
	p, err := NewPeriod(month, year)
	require.NoError(t, err)
	return p
}

func TestAggregate_MonthScopedPartition(t *testing.T) {
	directory := units.Index([]*units.Unit{{ID: 1, Name: "A"}})
	list := []*failures.Failure{
		failure(1, 1, "2024-05-10", true),
		failure(2, 1, "2024-05-02", false),
		failure(3, 1, "2024-06-01", true),
	}

	r := Aggregate(directory, list, mustPeriod(t, 5, 2024))

	assert.Equal(t, []int64{1}, ids(r.Active))
	assert.Equal(t, []int64{2}, ids(r.Resolved))
	assert.Equal(t, []int64{1, 2}, ids(r.All))
	assert.Equal(t, Counts{Active: 1, Resolved: 1, Total: 2}, r.Counts)
	for _, f := range r.All {
		assert.Equal(t, "A", f.UnitName)
	}
}

func TestAggregate_UnknownUnitGetsPlaceholder(t *testing.T) {
	list := []*failures.Failure{failure(1, 99, "2024-05-01", true)}

	r := Aggregate(map[units.ID]*units.Unit{}, list, mustPeriod(t, 5, 2024))

	require.Len(t, r.All, 1)
	require.Len(t, r.Active, 1)
	assert.Equal(t, UnknownUnitName, r.All[0].UnitName)
	assert.Empty(t, r.Resolved)
}

func TestAggregate_EmptyInputsGiveEmptySequences(t *testing.T) {
	r := Aggregate(nil, nil, mustPeriod(t, 1, 2024))

	assert.NotNil(t, r.Active)
	assert.NotNil(t, r.Resolved)
	assert.NotNil(t, r.All)
	assert.Equal(t, Counts{}, r.Counts)
}

func TestAggregate_SameDayKeepsInputOrder(t *testing.T) {
	list := []*failures.Failure{
		failure(10, 1, "2024-03-05", true),
		failure(11, 1, "2024-03-09", false),
		failure(12, 1, "2024-03-05", false),
		failure(13, 1, "2024-03-05", true),
		failure(14, 1, "2024-03-01", true),
	}

	r := Aggregate(nil, list, mustPeriod(t, 3, 2024))

	assert.Equal(t, []int64{11, 10, 12, 13, 14}, ids(r.All))
	assert.Equal(t, []int64{10, 13, 14}, ids(r.Active))
	assert.Equal(t, []int64{11, 12}, ids(r.Resolved))
}

func TestAggregate_SkipsOtherYearsSameMonth(t *testing.T) {
	list := []*failures.Failure{
		failure(1, 1, "2023-05-10", true),
		failure(2, 1, "2024-05-10", true),
		failure(3, 1, "2025-05-10", false),
	}

	r := Aggregate(nil, list, mustPeriod(t, 5, 2024))

	assert.Equal(t, []int64{2}, ids(r.All))
}

func TestAggregate_Properties(t *testing.T) {
	directory := units.Index([]*units.Unit{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	var list []*failures.Failure
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		d := failures.DateOf(start.AddDate(0, 0, (i*37)%200))
		list = append(list, &failures.Failure{
			ID:     int64(i + 1),
			UnitID: units.ID(i%3 + 1),
			Date:   d,
			Active: i%4 != 0,
		})
	}
	p := mustPeriod(t, 4, 2024)

	r := Aggregate(directory, list, p)

	assert.Equal(t, r.Counts.Active+r.Counts.Resolved, r.Counts.Total)
	assert.Len(t, r.All, r.Counts.Total)

	seen := map[int64]int{}
	for _, f := range r.Active {
		assert.True(t, f.Active)
		seen[f.ID]++
	}
	for _, f := range r.Resolved {
		assert.False(t, f.Active)
		seen[f.ID]++
	}
	for _, f := range r.All {
		assert.Equal(t, 1, seen[f.ID], "failure %d must be in exactly one subset", f.ID)
	}

	for _, seq := range [][]*FailureWithUnitName{r.Active, r.Resolved, r.All} {
		for i, f := range seq {
			assert.True(t, p.Contains(f.Date.Time))
			if i > 0 {
				assert.False(t, seq[i-1].Date.Before(f.Date), "sequence must be newest first")
			}
			if f.UnitID == 3 {
				assert.Equal(t, UnknownUnitName, f.UnitName)
			}
		}
	}

	again := Aggregate(directory, list, p)
	assert.Equal(t, r, again)
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	list := []*failures.Failure{
		failure(1, 1, "2024-05-01", true),
		failure(2, 1, "2024-05-20", true),
	}

	Aggregate(nil, list, mustPeriod(t, 5, 2024))

	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
}

func TestAnnotate_NoPeriodFilter(t *testing.T) {
	directory := units.Index([]*units.Unit{{ID: 1, Name: "A"}})
	list := []*failures.Failure{
		failure(1, 1, "2023-01-01", true),
		failure(2, 7, "2024-05-01", false),
	}

	out := Annotate(directory, list)

	assert.Equal(t, []int64{2, 1}, ids(out))
	assert.Equal(t, UnknownUnitName, out[0].UnitName)
	assert.Equal(t, "A", out[1].UnitName)
}

func TestReport_Subset(t *testing.T) {
	r := Aggregate(nil, []*failures.Failure{
		failure(1, 1, "2024-05-01", true),
		failure(2, 1, "2024-05-02", false),
	}, mustPeriod(t, 5, 2024))

	kind, err := ParseSubset("")
	require.NoError(t, err)
	assert.Equal(t, SubsetAll, kind)
	assert.Len(t, r.Subset(kind), 2)
	assert.Equal(t, []int64{1}, ids(r.Subset(SubsetActive)))
	assert.Equal(t, []int64{2}, ids(r.Subset(SubsetResolved)))

	_, err = ParseSubset("abertas")
	assert.ErrorIs(t, err, ErrInvalidSubset)
}
