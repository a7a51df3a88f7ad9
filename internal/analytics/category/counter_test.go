package category

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

func TestCounter_MostCommonOrdersByCount(t *testing.T) {
	c := NewCounter()
	for _, label := range []string{"a", "b", "b", "c", "c", "c"} {
		c.Add(label)
	}

	assert.Equal(t, []domain.CategoryCount{
		{Label: "c", Count: 3},
		{Label: "b", Count: 2},
		{Label: "a", Count: 1},
	}, c.MostCommon(0))
}

func TestCounter_TiesKeepFirstSeenOrder(t *testing.T) {
	c := NewCounter()
	for _, label := range []string{"зебра", "альфа", "зебра", "альфа", "яблоко", "яблоко"} {
		c.Add(label)
	}

	// All three have count 2; order must follow first appearance, not the
	// alphabet.
	assert.Equal(t, []domain.CategoryCount{
		{Label: "зебра", Count: 2},
		{Label: "альфа", Count: 2},
		{Label: "яблоко", Count: 2},
	}, c.MostCommon(0))
}

func TestCounter_Limit(t *testing.T) {
	c := NewCounter()
	for i := 0; i < 30; i++ {
		c.Add(fmt.Sprintf("label-%d", i))
	}

	assert.Len(t, c.MostCommon(20), 20)
	assert.Len(t, c.MostCommon(0), 30)
	assert.Equal(t, 30, c.Distinct())
}
