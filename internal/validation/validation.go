package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/weekwise/weekwise/types"
)

// Result is the outcome of validating a single field.
type Result struct {
	IsValid bool
	Message string
}

// TaskResult is the outcome of validating a whole task record. IsValid
// reflects hard errors only; warnings never block persistence.
type TaskResult struct {
	IsValid  bool
	Errors   map[string]string
	Warnings []string
}

// rule combines a custom predicate and a pattern. Both must pass.
type rule struct {
	test    func(string) bool
	pattern *regexp.Regexp
	message string
}

var rules = map[string]rule{
	"title": {
		test: func(v string) bool {
			return strings.TrimSpace(v) != "" && v == strings.TrimSpace(v)
		},
		pattern: regexp.MustCompile(`^\S(?:[\s\S]*\S)?$`),
		message: "title must be non-empty with no leading or trailing whitespace",
	},
	"duration": {
		test: func(v string) bool {
			n, err := strconv.ParseFloat(v, 64)
			return err == nil && n > 0 && n <= 1000
		},
		pattern: regexp.MustCompile(`^\d+(?:\.\d{1,2})?$`),
		message: "duration must be a number between 0 (exclusive) and 1000 with at most 2 decimal places",
	},
	"date": {
		test:    isValidDate,
		pattern: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2})?$`),
		message: "date must be a valid calendar date in YYYY-MM-DD form, optionally with a HH:MM time",
	},
	"tag": {
		test: func(v string) bool {
			return strings.TrimSpace(v) != "" && len(v) <= 100
		},
		pattern: regexp.MustCompile(`^[\w &-]+$`),
		message: "tag must be 1-100 characters of letters, digits, spaces, '&' or '-'",
	},
	"description": {
		test: func(v string) bool {
			return len(v) <= 1000
		},
		pattern: regexp.MustCompile(`(?s)^.*$`),
		message: "description must be at most 1000 characters",
	},
}

func init() {
	// dueDate shares the date rule.
	rules["dueDate"] = rules["date"]
}

// isValidDate accepts YYYY-MM-DD with an optional THH:MM suffix. The date
// part must round-trip through parsing so impossible dates like
// 2024-02-30 are rejected rather than normalized.
func isValidDate(v string) bool {
	datePart := v
	if idx := strings.IndexByte(v, 'T'); idx >= 0 {
		datePart = v[:idx]
		timePart := v[idx+1:]
		if _, err := time.Parse("15:04", timePart); err != nil {
			return false
		}
	}
	parsed, err := time.Parse(types.DateLayout, datePart)
	if err != nil {
		return false
	}
	return parsed.Format(types.DateLayout) == datePart
}

// ValidateField checks a single field value against the rule table.
// Unknown field names pass trivially.
func ValidateField(name, value string) Result {
	r, ok := rules[name]
	if !ok {
		return Result{IsValid: true}
	}
	if !r.test(value) || !r.pattern.MatchString(value) {
		return Result{Message: r.message}
	}
	return Result{IsValid: true}
}

// ValidateTask performs record-level validation. All required fields are
// checked even after the first failure so the caller receives the full
// error map in one pass.
func ValidateTask(t types.Task) TaskResult {
	res := TaskResult{
		IsValid: true,
		Errors:  make(map[string]string),
	}

	checkRequired := func(field, value string) {
		if value == "" {
			res.Errors[field] = fmt.Sprintf("%s is required", field)
			return
		}
		if r := ValidateField(field, value); !r.IsValid {
			res.Errors[field] = r.Message
		}
	}

	checkRequired("title", t.Title)
	checkRequired("dueDate", t.DueDate)
	checkRequired("tag", t.Tag)

	if t.Duration == 0 {
		res.Errors["duration"] = "duration is required"
	} else if r := ValidateField("duration", formatDuration(t.Duration)); !r.IsValid {
		res.Errors["duration"] = r.Message
	}

	// Description problems never block persistence.
	if r := ValidateField("description", t.Description); !r.IsValid {
		res.Warnings = append(res.Warnings, r.Message)
	}

	if due, err := t.DueTime(); err == nil && due.Before(time.Now()) {
		res.Warnings = append(res.Warnings, "due date is in the past")
	}
	if t.Duration > 24 {
		res.Warnings = append(res.Warnings, "duration exceeds 24 hours")
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func formatDuration(n float64) string {
	if n < 0 {
		return "-1"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
