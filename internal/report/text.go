// Package report renders analysis summaries as Telegram-flavored HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

const (
	topEmployersShown  = 10
	topSkillsShown     = 15
	topCategoriesShown = 5
)

// Text renders the summary as a Telegram HTML message. Sections with no
// data are dropped entirely rather than rendered empty.
func Text(summary *domain.AnalysisSummary, query, area string) string {
	var b strings.Builder

	b.WriteString("📊 <b>Аналитика вакансий</b>\n\n")
	fmt.Fprintf(&b, "🔍 Запрос: <b>%s</b>\n", query)
	if area != "" {
		fmt.Fprintf(&b, "📍 Город: %s\n", area)
	}
	fmt.Fprintf(&b, "📋 Всего найдено: <b>%s</b>\n\n", comma(summary.Total))

	if summary.Salary.Available {
		writeSalary(&b, &summary.Salary)
	}

	if len(summary.Experience) > 0 {
		b.WriteString("👔 <b>Опыт работы:</b>\n")
		for _, c := range top(summary.Experience, topCategoriesShown) {
			fmt.Fprintf(&b, "   %s: %d\n", c.Label, c.Count)
		}
		b.WriteString("\n")
	}

	if len(summary.SalaryByExperience) > 0 {
		writeSalaryByExperience(&b, summary.SalaryByExperience)
	}

	if len(summary.Schedule) > 0 {
		b.WriteString("🕐 <b>График:</b>\n")
		for _, c := range top(summary.Schedule, topCategoriesShown) {
			fmt.Fprintf(&b, "   %s: %d\n", c.Label, c.Count)
		}
		b.WriteString("\n")
	}

	if len(summary.Employers.Top) > 0 {
		b.WriteString("🏢 <b>Топ-10 работодателей:</b>\n")
		for _, c := range top(summary.Employers.Top, topEmployersShown) {
			fmt.Fprintf(&b, "   %s: %d вакансий\n", c.Label, c.Count)
		}
		b.WriteString("\n")
	}

	if len(summary.Skills.Top) > 0 {
		b.WriteString("🛠 <b>Топ-15 навыков:</b>\n")
		for _, c := range top(summary.Skills.Top, topSkillsShown) {
			fmt.Fprintf(&b, "   %s: %d\n", c.Label, c.Count)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeSalary(b *strings.Builder, salary *domain.SalaryStats) {
	b.WriteString("💰 <b>Зарплаты:</b>\n")
	fmt.Fprintf(b, "   Мин: %s ₽\n", comma(salary.Min))
	fmt.Fprintf(b, "   Макс: %s ₽\n", comma(salary.Max))
	fmt.Fprintf(b, "   Средняя: %s ₽\n", comma(salary.Mean))
	fmt.Fprintf(b, "   Медиана: %s ₽\n\n", comma(salary.Median))

	b.WriteString("📈 <b>Распределение:</b>\n")
	for _, bucket := range salary.Histogram {
		pct := 0.0
		if salary.Count > 0 {
			pct = float64(bucket.Count) / float64(salary.Count) * 100
		}
		bar := strings.Repeat("█", int(pct/5))
		fmt.Fprintf(b, "   %s: %d (%.0f%%) %s\n", bucket.Label, bucket.Count, pct, bar)
	}
	b.WriteString("\n")
}

func writeSalaryByExperience(b *strings.Builder, byExp map[string]*domain.SalaryStats) {
	b.WriteString("💰 <b>Зарплаты по опыту:</b>\n")
	for _, tier := range domain.TierOrder {
		stats, ok := byExp[tier.Label()]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "   <b>%s:</b> %s - %s ₽\n", tier.Label(), comma(stats.Min), comma(stats.Max))
		fmt.Fprintf(b, "      Средняя: %s ₽ | Медиана: %s ₽ | (%d вакансий)\n",
			comma(stats.Mean), comma(stats.Median), stats.Count)
	}
	b.WriteString("\n")
}

func top(counts []domain.CategoryCount, n int) []domain.CategoryCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}

func comma(n int) string {
	return humanize.Comma(int64(n))
}
