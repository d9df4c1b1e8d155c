package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
)

func TestDigestUserPrompt(t *testing.T) {
	directory := units.Index([]*units.Unit{{ID: 1, Name: "Usina Norte"}, {ID: 2, Name: "Subestação"}})
	list := []*failures.Failure{
		{ID: 1, UnitID: 1, Date: failures.NewDate(2024, 5, 10), Active: true, Description: "queda\nde energia"},
		{ID: 2, UnitID: 1, Date: failures.NewDate(2024, 5, 3), Active: false, Description: "alarme"},
		{ID: 3, UnitID: 2, Date: failures.NewDate(2024, 5, 1), Active: true, Description: "ruído"},
	}
	p, _ := dashboard.NewPeriod(5, 2024)
	r := dashboard.Aggregate(directory, list, p)

	out := DigestUserPrompt(r)

	assert.Contains(t, out, "Período: 5/2024")
	assert.Contains(t, out, "Ativas: 2 | Resolvidas: 1 | Total: 3")
	assert.Contains(t, out, "Usina Norte (2), Subestação (1)")
	assert.Contains(t, out, "- 2024-05-10 | Usina Norte | Ativa | queda de energia")
	assert.Contains(t, out, "Resolvida")
}

func TestDigestUserPrompt_CapsList(t *testing.T) {
	var list []*failures.Failure
	for i := 0; i < maxListed+5; i++ {
		list = append(list, &failures.Failure{ID: int64(i), UnitID: 1, Date: failures.NewDate(2024, 5, 1), Active: true})
	}
	p, _ := dashboard.NewPeriod(5, 2024)

	out := DigestUserPrompt(dashboard.Aggregate(nil, list, p))

	assert.Equal(t, maxListed, strings.Count(out, "\n- "))
	assert.Contains(t, out, "mais 5 falhas omitidas")
}
