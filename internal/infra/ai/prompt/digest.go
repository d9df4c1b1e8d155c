package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
)

// maxListed caps how many failures go into the user prompt.
const maxListed = 40

// DigestSystemPrompt sets tone and format for the monthly digest.
func DigestSystemPrompt() string {
	return `Você é um analista de manutenção. Escreva um resumo curto (no máximo 6 frases) em português do Brasil sobre as falhas do mês.

Regras:
- Texto simples, sem markdown e sem listas.
- Cite os números exatos de falhas ativas, resolvidas e o total.
- Destaque as unidades com mais ocorrências e falhas ainda ativas.
- Não invente dados que não estejam no relatório.`
}

// DigestUserPrompt renders the report as compact plain text.
func DigestUserPrompt(r dashboard.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Período: %s\n", r.Period)
	fmt.Fprintf(&b, "Ativas: %d | Resolvidas: %d | Total: %d\n", r.Counts.Active, r.Counts.Resolved, r.Counts.Total)

	if top := topUnits(r.All, 5); len(top) > 0 {
		b.WriteString("Unidades com mais falhas: ")
		b.WriteString(strings.Join(top, ", "))
		b.WriteString("\n")
	}

	b.WriteString("Falhas:\n")
	for i, f := range r.All {
		if i == maxListed {
			fmt.Fprintf(&b, "... mais %d falhas omitidas\n", len(r.All)-maxListed)
			break
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s\n", f.Date, f.UnitName, f.Status(), oneLine(f.Description))
	}
	return b.String()
}

func topUnits(list []*dashboard.FailureWithUnitName, n int) []string {
	counts := map[string]int{}
	for _, f := range list {
		counts[f.UnitName]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%s (%d)", name, counts[name])
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
