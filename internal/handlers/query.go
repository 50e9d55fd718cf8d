package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
)

// selectionQuery reads the dashboard controls from the query string. Absent
// parameters stay zero so the service applies its defaults.
func selectionQuery(r *http.Request) (dto.SelectionQuery, error) {
	q := r.URL.Query()
	sel := dto.SelectionQuery{
		Index:    strings.TrimSpace(q.Get("index")),
		Division: strings.TrimSpace(q.Get("division")),
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"year", &sel.Year},
		{"month", &sel.Month},
		{"from", &sel.From},
		{"to", &sel.To},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return dto.SelectionQuery{}, errs.NewValidationError(fmt.Sprintf("%s must be a positive integer", p.name))
		}
		*p.dst = v
	}
	return sel, nil
}
