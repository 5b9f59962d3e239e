package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestValidator_Check(t *testing.T) {
	v := NewValidator(fixedClock(2024))

	t.Run("valid request", func(t *testing.T) {
		errs := v.Check(&Request{Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965})
		assert.Empty(t, errs)
	})

	t.Run("blank title and author", func(t *testing.T) {
		errs := v.Check(&Request{PublishedYear: 2000})
		assert.Equal(t, "Title must not be blank", errs["title"])
		assert.Equal(t, "Author must not be blank", errs["author"])
	})

	t.Run("year before 1500", func(t *testing.T) {
		errs := v.Check(&Request{Title: "Codex", Author: "Anon", PublishedYear: 1499})
		assert.Equal(t, "Published year must be no earlier than 1500", errs["publishedYear"])
	})

	t.Run("year 1500 is the inclusive lower bound", func(t *testing.T) {
		errs := v.Check(&Request{Title: "Codex", Author: "Anon", PublishedYear: 1500})
		assert.Empty(t, errs)
	})

	t.Run("current year passes", func(t *testing.T) {
		errs := v.Check(&Request{Title: "Now", Author: "Anon", PublishedYear: 2024})
		assert.Empty(t, errs)
	})

	t.Run("one year in the future fails", func(t *testing.T) {
		errs := v.Check(&Request{Title: "Soon", Author: "Anon", PublishedYear: 2025})
		assert.Equal(t, "Published year must not be in the future", errs["publishedYear"])
	})
}

// The upper bound has to move with the clock, not sit in a constant: the
// same request flips from invalid to valid when the injected year
// advances.
func TestValidator_BoundMovesWithClock(t *testing.T) {
	req := &Request{Title: "Soon", Author: "Anon", PublishedYear: 2025}

	assert.NotEmpty(t, NewValidator(fixedClock(2024)).Check(req))
	assert.Empty(t, NewValidator(fixedClock(2025)).Check(req))
}

func TestValidator_NilClockDefaultsToWallClock(t *testing.T) {
	v := NewValidator(nil)
	errs := v.Check(&Request{Title: "Now", Author: "Anon", PublishedYear: time.Now().Year()})
	assert.Empty(t, errs)
}
